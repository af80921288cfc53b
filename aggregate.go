package folio

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// Filter selects the events to aggregate.
type Filter struct {
	// Account restricts to one sub-account. Empty or "ALL" selects every account.
	Account string
	// Range restricts to an inclusive date range.
	Range date.Bounds
}

// AllAccounts is the Filter.Account value selecting every account.
const AllAccounts = "ALL"

// SingleAccount reports whether the filter restricts to one sub-account.
func (f Filter) SingleAccount() bool { return f.Account != "" && f.Account != AllAccounts }

// Match reports whether e passes the filter.
func (f Filter) Match(e FinancialEvent) bool {
	if f.SingleAccount() && e.Account != f.Account {
		return false
	}
	return f.Range.Contains(e.Date)
}

// Position aggregates the trades of one security.
type Position struct {
	Symbol     string          `json:"symbol"`
	Name       string          `json:"name,omitempty"`
	Buys       decimal.Decimal `json:"buys"`  // sum of absolute buy amounts
	Sells      decimal.Decimal `json:"sells"` // sum of sell amounts
	Dividends  decimal.Decimal `json:"dividends"`
	TradeCount int             `json:"trades"`
}

// Realized returns the realized profit and loss: sells - buys.
func (p Position) Realized() decimal.Decimal { return p.Sells.Sub(p.Buys) }

// MarshalJSON adds the computed realized value to the position fields.
func (p Position) MarshalJSON() ([]byte, error) {
	type position Position // no methods, no recursion
	var w jsonObjectWriter
	w.EmbedFrom(position(p))
	w.Append("realized", p.Realized())
	return w.MarshalJSON()
}

// PeriodBucket aggregates the events of one month, quarter or year.
type PeriodBucket struct {
	Period      string          `json:"period"` // "MM/YYYY", "Qn YYYY" or "YYYY"
	Deposits    decimal.Decimal `json:"deposits"`
	Withdrawals decimal.Decimal `json:"withdrawals"`
	PL          decimal.Decimal `json:"pl"`
	Fees        decimal.Decimal `json:"fees"`
	Dividends   decimal.Decimal `json:"dividends"`
	Interest    decimal.Decimal `json:"interest"`
}

func (b *PeriodBucket) merge(o PeriodBucket) {
	b.Deposits = b.Deposits.Add(o.Deposits)
	b.Withdrawals = b.Withdrawals.Add(o.Withdrawals)
	b.PL = b.PL.Add(o.PL)
	b.Fees = b.Fees.Add(o.Fees)
	b.Dividends = b.Dividends.Add(o.Dividends)
	b.Interest = b.Interest.Add(o.Interest)
}

// Fees splits the gross fees.
type Fees struct {
	Commission decimal.Decimal `json:"commission"`
	Tax        decimal.Decimal `json:"tax"`
	// Other is kept for reporting; no keyword rule feeds it.
	Other decimal.Decimal `json:"other"`
}

// Rebates are credits offsetting fees.
type Rebates struct {
	Commission decimal.Decimal `json:"commission"`
}

// KPISet holds the global figures of an aggregation.
type KPISet struct {
	Deposits    decimal.Decimal `json:"deposits"`
	Withdrawals decimal.Decimal `json:"withdrawals"`
	NetDeposits decimal.Decimal `json:"netDeposits"`
	Dividends   decimal.Decimal `json:"dividends"`
	Interest    decimal.Decimal `json:"interest"`
	Fees        Fees            `json:"fees"`
	Rebates     Rebates         `json:"rebates"`
	TotalFees   decimal.Decimal `json:"totalFees"`
	NetResult   decimal.Decimal `json:"netResult"`
	TotalValue  decimal.Decimal `json:"totalValue"`
	PerfPct     Percent         `json:"perfPct"`
}

// finalize computes the derived figures from the accumulated ones and the positions.
func (k *KPISet) finalize(positions []Position) {
	k.NetDeposits = k.Deposits.Sub(k.Withdrawals)
	k.TotalFees = k.Fees.Commission.Add(k.Fees.Tax).Add(k.Fees.Other).Sub(k.Rebates.Commission)
	realized := decimal.Zero
	for _, p := range positions {
		realized = realized.Add(p.Realized())
	}
	k.NetResult = k.Dividends.Add(k.Interest).Add(realized).Sub(k.TotalFees)
	k.PerfPct = 0
	if k.NetDeposits.IsPositive() {
		k.PerfPct = Percent(k.NetResult.Div(k.NetDeposits).Mul(decimal.NewFromInt(100)).InexactFloat64())
	}
}

// accumulator is the state of one aggregation. It is never shared between calls.
type accumulator struct {
	kpis      KPISet
	positions map[string]*Position
	months    map[string]*PeriodBucket
	quarters  map[string]*PeriodBucket
	years     map[string]*PeriodBucket
	accounts  map[string]struct{}
	min, max  date.Date
	events    int
}

func newAccumulator() *accumulator {
	return &accumulator{
		positions: make(map[string]*Position),
		months:    make(map[string]*PeriodBucket),
		quarters:  make(map[string]*PeriodBucket),
		years:     make(map[string]*PeriodBucket),
		accounts:  make(map[string]struct{}),
	}
}

// getOrInsert returns the value of key in m, inserting the result of create first if absent.
func getOrInsert[V any](m map[string]*V, key string, create func() *V) *V {
	v, ok := m[key]
	if !ok {
		v = create()
		m[key] = v
	}
	return v
}

func (a *accumulator) position(key, name string) *Position {
	return getOrInsert(a.positions, key, func() *Position { return &Position{Symbol: key, Name: name} })
}

func bucketIn(m map[string]*PeriodBucket, label string) *PeriodBucket {
	return getOrInsert(m, label, func() *PeriodBucket { return &PeriodBucket{Period: label} })
}

// buckets returns the month, quarter and year buckets of d.
func (a *accumulator) buckets(d date.Date) [3]*PeriodBucket {
	return [3]*PeriodBucket{
		bucketIn(a.months, d.Label(date.Monthly)),
		bucketIn(a.quarters, d.Label(date.Quarterly)),
		bucketIn(a.years, d.Label(date.Yearly)),
	}
}

// add folds one event.
func (a *accumulator) add(e FinancialEvent) {
	a.events++
	if a.min.IsZero() || e.Date.Before(a.min) {
		a.min = e.Date
	}
	if a.max.IsZero() || e.Date.After(a.max) {
		a.max = e.Date
	}
	abs := e.Amount.Abs()
	buckets := a.buckets(e.Date)
	each := func(f func(b *PeriodBucket)) {
		for _, b := range buckets {
			f(b)
		}
	}

	switch e.Kind {
	case Deposit:
		a.kpis.Deposits = a.kpis.Deposits.Add(abs)
		each(func(b *PeriodBucket) { b.Deposits = b.Deposits.Add(abs) })
	case Withdrawal:
		a.kpis.Withdrawals = a.kpis.Withdrawals.Add(abs)
		each(func(b *PeriodBucket) { b.Withdrawals = b.Withdrawals.Add(abs) })
	case Dividend:
		a.kpis.Dividends = a.kpis.Dividends.Add(e.Amount)
		each(func(b *PeriodBucket) { b.Dividends = b.Dividends.Add(e.Amount) })
		if e.Symbol != "" {
			p := a.position(e.Symbol, e.Label)
			p.Dividends = p.Dividends.Add(e.Amount)
		}
	case Interest:
		a.kpis.Interest = a.kpis.Interest.Add(e.Amount)
		each(func(b *PeriodBucket) { b.Interest = b.Interest.Add(e.Amount) })
	case Commission:
		a.kpis.Fees.Commission = a.kpis.Fees.Commission.Add(abs)
		each(func(b *PeriodBucket) { b.Fees = b.Fees.Add(abs) })
	case CommissionRebate:
		a.kpis.Rebates.Commission = a.kpis.Rebates.Commission.Add(e.Amount)
	case Tax:
		a.kpis.Fees.Tax = a.kpis.Fees.Tax.Add(abs)
		each(func(b *PeriodBucket) { b.Fees = b.Fees.Add(abs) })
	case TradeBuy, TradeSell:
		p := a.position(e.PositionKey(), e.Label)
		p.TradeCount++
		if e.Kind == TradeBuy {
			p.Buys = p.Buys.Add(abs)
		} else {
			p.Sells = p.Sells.Add(e.Amount)
		}
		each(func(b *PeriodBucket) { b.PL = b.PL.Add(e.Amount) })
	}
}

// mergeResult folds an already aggregated result.
func (a *accumulator) mergeResult(r *Result) {
	k := r.KPIs
	a.kpis.Deposits = a.kpis.Deposits.Add(k.Deposits)
	a.kpis.Withdrawals = a.kpis.Withdrawals.Add(k.Withdrawals)
	a.kpis.Dividends = a.kpis.Dividends.Add(k.Dividends)
	a.kpis.Interest = a.kpis.Interest.Add(k.Interest)
	a.kpis.Fees.Commission = a.kpis.Fees.Commission.Add(k.Fees.Commission)
	a.kpis.Fees.Tax = a.kpis.Fees.Tax.Add(k.Fees.Tax)
	a.kpis.Fees.Other = a.kpis.Fees.Other.Add(k.Fees.Other)
	a.kpis.Rebates.Commission = a.kpis.Rebates.Commission.Add(k.Rebates.Commission)
	a.kpis.TotalValue = a.kpis.TotalValue.Add(k.TotalValue)
	for _, p := range r.Positions {
		q := a.position(p.Symbol, p.Name)
		q.Buys = q.Buys.Add(p.Buys)
		q.Sells = q.Sells.Add(p.Sells)
		q.Dividends = q.Dividends.Add(p.Dividends)
		q.TradeCount += p.TradeCount
	}
	for _, pair := range []struct {
		m       map[string]*PeriodBucket
		buckets []PeriodBucket
	}{{a.months, r.Months}, {a.quarters, r.Quarters}, {a.years, r.Years}} {
		for _, b := range pair.buckets {
			bucketIn(pair.m, b.Period).merge(b)
		}
	}
	for _, acc := range r.Accounts {
		a.accounts[acc] = struct{}{}
	}
	if r.DateRange != nil {
		if a.min.IsZero() || r.DateRange.Min.Before(a.min) {
			a.min = r.DateRange.Min
		}
		if a.max.IsZero() || r.DateRange.Max.After(a.max) {
			a.max = r.DateRange.Max
		}
	}
	a.events += r.Stats.Events
}

// result finalizes the accumulator into a sorted Result.
func (a *accumulator) result() *Result {
	r := newResult()
	for _, p := range a.positions {
		r.Positions = append(r.Positions, *p)
	}
	slices.SortFunc(r.Positions, func(x, y Position) int {
		if c := y.Realized().Cmp(x.Realized()); c != 0 {
			return c
		}
		return strings.Compare(x.Symbol, y.Symbol)
	})
	r.Months = sortedBuckets(a.months)
	r.Quarters = sortedBuckets(a.quarters)
	r.Years = sortedBuckets(a.years)
	r.Accounts = slices.Sorted(maps.Keys(a.accounts))
	if r.Accounts == nil {
		r.Accounts = []string{}
	}
	r.KPIs = a.kpis
	r.KPIs.finalize(r.Positions)
	if a.events > 0 {
		r.DateRange = &DateRange{Min: a.min, Max: a.max}
	}
	r.Stats.Events = a.events
	return r
}

func sortedBuckets(m map[string]*PeriodBucket) []PeriodBucket {
	out := make([]PeriodBucket, 0, len(m))
	for _, b := range m {
		out = append(out, *b)
	}
	slices.SortFunc(out, func(x, y PeriodBucket) int {
		return cmp.Or(date.ComparePeriodLabels(x.Period, y.Period), strings.Compare(x.Period, y.Period))
	})
	return out
}

// Aggregate folds the events passing the filter in a single pass.
//
// Accounts are collected from every event, filtered or not, so that callers
// can offer the list of sub-accounts.
func Aggregate(events []FinancialEvent, filter Filter) *Result {
	a := newAccumulator()
	for _, e := range events {
		if e.Account != "" {
			a.accounts[e.Account] = struct{}{}
		}
		if !filter.Match(e) {
			continue
		}
		a.add(e)
	}
	return a.result()
}
