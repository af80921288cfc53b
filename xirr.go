package folio

import (
	"math"
	"slices"

	"github.com/etnz/folio/date"
)

// CashFlow is a dated investor cash flow.
//
// Capital contributed by the investor is negative, capital returned to the
// investor (including the terminal valuation) is positive.
type CashFlow struct {
	Date   date.Date `json:"date"`
	Amount float64   `json:"amount"`
}

// CashFlowsFromEvents returns the investor cash flows of deposits (negative) and withdrawals (positive).
func CashFlowsFromEvents(events []FinancialEvent) []CashFlow {
	flows := make([]CashFlow, 0)
	for _, e := range events {
		amount := e.Amount.Abs().InexactFloat64()
		switch e.Kind {
		case Deposit:
			flows = append(flows, CashFlow{Date: e.Date, Amount: -amount})
		case Withdrawal:
			flows = append(flows, CashFlow{Date: e.Date, Amount: amount})
		}
	}
	return flows
}

const (
	xirrSeed          = 0.10
	xirrStep          = 1e-6 // finite difference step
	xirrMaxIterations = 100
	xirrTolerance     = 1e-8
	bisectLow         = -0.999
	bisectHigh        = 10.0
	bisectIterations  = 60
	daysPerYear       = 365.25
)

// npv returns the net present value of flows at rate r, with t in years from the first flow.
func npv(flows []CashFlow, r float64) float64 {
	t0 := flows[0].Date
	sum := 0.0
	for _, f := range flows {
		t := float64(t0.DaysUntil(f.Date)) / daysPerYear
		sum += f.Amount / math.Pow(1+r, t)
	}
	return sum
}

// XIRR returns the annual rate making the net present value of flows, plus a
// terminal flow of valuation on asOf, equal to zero.
//
// Newton-Raphson is tried first. If it does not converge to an acceptable
// root, bisection over [-0.999, 10] is used when the bounds bracket a root.
// It returns false when no rate can be found, for instance when all flows
// have the same sign, or when a valuation has no date.
func XIRR(flows []CashFlow, valuation float64, asOf date.Date) (float64, bool) {
	all := make([]CashFlow, 0, len(flows)+1)
	for _, f := range flows {
		if f.Amount != 0 {
			all = append(all, f)
		}
	}
	if len(all) == 0 {
		return 0, false
	}
	if valuation != 0 {
		if asOf.IsZero() {
			return 0, false
		}
		all = append(all, CashFlow{Date: asOf, Amount: valuation})
	}
	slices.SortStableFunc(all, func(a, b CashFlow) int { return a.Date.Compare(b.Date) })

	var pos, neg bool
	for _, f := range all {
		pos = pos || f.Amount > 0
		neg = neg || f.Amount < 0
	}
	if !pos || !neg {
		return 0, false
	}

	tolerance := math.Max(100, math.Abs(valuation)*1e-6)
	f := func(r float64) float64 { return npv(all, r) }

	if r, ok := newton(f); ok && math.Abs(f(r)) < tolerance {
		return r, true
	}
	return bisect(f)
}

func newton(f func(float64) float64) (float64, bool) {
	r := xirrSeed
	for range xirrMaxIterations {
		y := f(r)
		d := (f(r+xirrStep) - y) / xirrStep
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return 0, false
		}
		next := r - y/d
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= -1 {
			return 0, false
		}
		if math.Abs(next-r) < xirrTolerance {
			return next, true
		}
		r = next
	}
	return 0, false
}

func bisect(f func(float64) float64) (float64, bool) {
	lo, hi := bisectLow, bisectHigh
	flo, fhi := f(lo), f(hi)
	if math.IsNaN(flo) || math.IsNaN(fhi) || math.Signbit(flo) == math.Signbit(fhi) {
		return 0, false
	}
	mid := (lo + hi) / 2
	for range bisectIterations {
		mid = (lo + hi) / 2
		fm := f(mid)
		if fm == 0 {
			return mid, true
		}
		if math.Signbit(fm) == math.Signbit(flo) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	return mid, true
}
