package folio

import (
	"encoding/json"
	"testing"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		m          Money
		str, signd string
	}{
		{CHF(1234.5), "1,234.50 CHF", "+1,234.50 CHF"},
		{CHF(-25), "-25.00 CHF", "-25.00 CHF"},
		{CHF(0), "0.00 CHF", "-"},
		{M(10, "EUR"), "€10.00", "+€10.00"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
		if got := tt.m.SignedString(); got != tt.signd {
			t.Errorf("SignedString() = %q, want %q", got, tt.signd)
		}
	}

	sum := CHF(10).Add(M(5, "")).Sub(CHF(2.5))
	if !sum.Equal(CHF(12.5)) {
		t.Errorf("sum = %v, want 12.50 CHF", sum)
	}

	data, err := json.Marshal(CHF(1.005))
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"currency":"CHF","amount":"1.01"}`; string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}
