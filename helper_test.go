package folio

import (
	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// CHF is a helper for test to create swiss franc money from const
func CHF(v float64) Money { return M(v, "CHF") }

// D is a helper for test to create decimals from const
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// on is a helper for test to parse ISO dates
func on(s string) date.Date { return date.MustParse(s) }

// ev is a helper for test to create an event
func ev(day string, kind Kind, amount float64, symbol string) FinancialEvent {
	return FinancialEvent{Date: on(day), Kind: kind, Amount: D(amount), Symbol: symbol, Label: symbol}
}

// ubsHeaders are the headers of a typical UBS Key4 transaction sheet.
var ubsHeaders = []Cell{"Date", "Description", "Montant", "Devise", "Type", "Titre", "Compte"}

// ubsBook is a small Key4 export.
func ubsBook() *Book {
	return NewBook(
		NewSheet("Transactions", [][]Cell{
			ubsHeaders,
			{"2024-01-15", "Virement SEPA", "10'000.00", "CHF", "", "", "A-1"},
			{"20.02.2024", "Achat NESTLE", "-2'500.00", "CHF", "Trade", "NESN", "A-1"},
			{45352.0, "Courtage", "-25.00", "CHF", "", "", "A-1"}, // 2024-03-01
			{"2024-04-10", "Dividende NESTLE", "75.50", "CHF", "", "NESN", "A-1"},
			{"2024-05-02", "Vente NESTLE", "3'000.00", "CHF", "Trade", "NESN", "A-2"},
			{"2024-05-02", "Droit de timbre", "-4.50", "CHF", "", "", "A-2"},
			{"2024-06-30", "Intérêts créditeurs", "1.20", "CHF", "", "", "A-2"},
			{"2024-07-01", "Retrait", "-1'000.00", "CHF", "", "", "A-2"},
			{"2024-07-05", "Rétrocession commission", "5.00", "CHF", "", "", "A-1"},
			{"", "Sans date", "1.00", "CHF", "", "", "A-1"},
			{"2024-08-01", "Ajustement divers", "3.00", "CHF", "", "", "A-1"},
			{nil, nil, nil, nil, nil, nil, nil},
		}),
		NewSheet("Positions", [][]Cell{
			{"Titre", "Quantité", "Valeur"},
			{"NESN", 10.0, "1'050.00"},
			{"ROG", 5.0, 1200.0},
		}),
	)
}
