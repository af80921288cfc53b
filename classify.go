package folio

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Kind is the category of a FinancialEvent.
type Kind int

const (
	Deposit Kind = iota + 1
	Withdrawal
	Dividend
	Interest
	Commission
	CommissionRebate
	Tax
	TradeBuy
	TradeSell
	Other
)

var kindNames = map[Kind]string{
	Deposit:          "deposit",
	Withdrawal:       "withdrawal",
	Dividend:         "dividend",
	Interest:         "interest",
	Commission:       "commission",
	CommissionRebate: "commission-rebate",
	Tax:              "tax",
	TradeBuy:         "buy",
	TradeSell:        "sell",
	Other:            "other",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for kind, name := range kindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", s)
}

// FinancialEvent is one classified transaction row.
type FinancialEvent struct {
	Date     date.Date       `json:"date"`
	Kind     Kind            `json:"kind"`
	Amount   decimal.Decimal `json:"amount"` // signed, as recorded
	Symbol   string          `json:"symbol,omitempty"`
	Account  string          `json:"account,omitempty"`
	Currency string          `json:"currency,omitempty"`
	// Label is the position key when there is no symbol: the description truncated to 20 runes.
	Label string `json:"label,omitempty"`
}

// PositionKey returns the key of the position this event contributes to.
func (e FinancialEvent) PositionKey() string {
	if e.Symbol != "" {
		return e.Symbol
	}
	return e.Label
}

// Category is a keyword rule category. The sign of the amount turns it into a Kind.
type Category string

const (
	CategoryTransfer   Category = "transfer"
	CategoryDividend   Category = "dividend"
	CategoryInterest   Category = "interest"
	CategoryCommission Category = "commission"
	CategoryTax        Category = "tax"
	CategoryTrade      Category = "trade"
)

// Keyword is a term to look for in the classification text.
// The term does not match if any of Unless is present as well.
type Keyword struct {
	Term   string
	Unless []string
}

// KeywordRule lists the keywords of one category.
type KeywordRule struct {
	Category Category
	Keywords []Keyword
}

func kw(terms ...string) []Keyword {
	k := make([]Keyword, len(terms))
	for i, t := range terms {
		k[i] = Keyword{Term: t}
	}
	return k
}

// DefaultRules returns the built-in keyword table, in priority order.
// French, English and German terms live side by side.
func DefaultRules() []KeywordRule {
	return []KeywordRule{
		{
			Category: CategoryTransfer,
			Keywords: kw("virement", "dépôt", "versement", "retrait",
				"credit transfer", "wire", "deposit", "withdrawal", "cash transfer",
				"einzahlung", "auszahlung", "gutschrift", "überweisung"),
		},
		{
			Category: CategoryDividend,
			Keywords: kw("dividende", "dividend", "coupon", "ausschüttung"),
		},
		{
			Category: CategoryInterest,
			Keywords: kw("intérêt", "interest", "zins"),
		},
		{
			Category: CategoryCommission,
			Keywords: append(kw("commission", "courtage", "brokerage", "frais de gest",
				"kommission", "gebühr", "fee"),
				Keyword{Term: "frais", Unless: []string{"timbr"}}),
		},
		{
			Category: CategoryTax,
			Keywords: kw("taxe", "impôt", "tax", "timbr", "droit de timbre",
				"steuer", "stempel", "withholding"),
		},
		{
			Category: CategoryTrade,
			Keywords: kw("achat", "vente", "buy", "sell", "bought", "sold", "kauf", "verkauf"),
		},
	}
}

// Outcome tells what happened to a classified row.
type Outcome int

const (
	// Classified rows produced an event.
	Classified Outcome = iota
	// Undated rows have no parseable date and are dropped.
	Undated
	// Unmatched rows match no category and have no symbol. They are dropped and counted as Other.
	Unmatched
)

// Classifier turns rows into financial events using a keyword table.
type Classifier struct {
	rules []KeywordRule // folded
}

// NewClassifier creates a classifier from the default rules, with extra
// keywords appended per category name.
func NewClassifier(extra map[string][]string) (*Classifier, error) {
	rules := DefaultRules()
	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		i := slices.IndexFunc(rules, func(r KeywordRule) bool { return string(r.Category) == strings.ToLower(name) })
		if i < 0 {
			return nil, fmt.Errorf("unknown keyword category %q", name)
		}
		rules[i].Keywords = append(rules[i].Keywords, kw(extra[name]...)...)
	}
	for i := range rules {
		for j, k := range rules[i].Keywords {
			k.Term = fold(k.Term)
			unless := make([]string, len(k.Unless))
			for u, v := range k.Unless {
				unless[u] = fold(v)
			}
			k.Unless = unless
			rules[i].Keywords[j] = k
		}
	}
	return &Classifier{rules: rules}, nil
}

// DefaultClassifier returns a classifier using the built-in table only.
func DefaultClassifier() *Classifier {
	c, err := NewClassifier(nil)
	if err != nil {
		panic(err)
	}
	return c
}

// Categorize returns the first category whose keywords appear in text.
func (c *Classifier) Categorize(text string) (Category, bool) {
	t := fold(text)
	for _, r := range c.rules {
		for _, k := range r.Keywords {
			if k.Term == "" || !strings.Contains(t, k.Term) {
				continue
			}
			if slices.ContainsFunc(k.Unless, func(u string) bool { return strings.Contains(t, u) }) {
				continue
			}
			return r.Category, true
		}
	}
	return "", false
}

// Kind classifies a text, its signed amount and symbol.
// It returns Other and false when nothing matches and the symbol is empty.
func (c *Classifier) Kind(text string, amount decimal.Decimal, symbol string) (Kind, bool) {
	cat, ok := c.Categorize(text)
	if !ok {
		if symbol == "" {
			return Other, false
		}
		cat = CategoryTrade
	}
	switch cat {
	case CategoryTransfer:
		if amount.IsPositive() {
			return Deposit, true
		}
		return Withdrawal, true
	case CategoryDividend:
		return Dividend, true
	case CategoryInterest:
		return Interest, true
	case CategoryCommission:
		if amount.IsNegative() {
			return Commission, true
		}
		return CommissionRebate, true
	case CategoryTax:
		return Tax, true
	default:
		if amount.IsNegative() {
			return TradeBuy, true
		}
		return TradeSell, true
	}
}

// Classify reads one transaction row through the mapping.
func (c *Classifier) Classify(row Row, m ColumnMapping) (FinancialEvent, Outcome) {
	on, ok := date.ParseFlexible(row.Get(m, FieldDate))
	if !ok {
		return FinancialEvent{}, Undated
	}
	desc := row.Text(m, FieldDesc)
	typ := row.Text(m, FieldType)
	e := FinancialEvent{
		Date:     on,
		Amount:   ParseDecimal(row.Get(m, FieldAmount)),
		Symbol:   row.Text(m, FieldSymbol),
		Account:  row.Text(m, FieldAccount),
		Currency: row.Text(m, FieldCurrency),
	}
	label := desc
	if label == "" {
		label = typ
	}
	e.Label = truncate(label, 20)

	kind, ok := c.Kind(desc+" "+typ, e.Amount, e.Symbol)
	e.Kind = kind
	if !ok {
		return e, Unmatched
	}
	return e, Classified
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// fold lower-cases and strips accents so that "DÉPÔT" and "depot" compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
