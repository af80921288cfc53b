package folio

import (
	"math"

	"github.com/etnz/folio/date"
)

// DefaultRiskFreeRate is the annual risk-free rate used by the Sharpe ratio, in percent.
const DefaultRiskFreeRate = 3.0

// tradingDays annualizes daily volatility.
const tradingDays = 252

// drawdownEpsilon is the depth, in percentage points, below which a drawdown is noise.
const drawdownEpsilon = 0.01

// CAGR annualizes a cumulative return over days: (1+twr)^(365/days) - 1.
// Both are fractions. It returns false when days <= 0 or twr <= -1.
func CAGR(twr float64, days int) (float64, bool) {
	if days <= 0 || twr <= -1 {
		return 0, false
	}
	return math.Pow(1+twr, 365/float64(days)) - 1, true
}

// Volatility returns the annualized sample standard deviation of the
// non-zero daily returns, in percent. It is 0 with fewer than two observations.
func Volatility(dailyReturnsPct []float64) float64 {
	var obs []float64
	for _, r := range dailyReturnsPct {
		if r != 0 && !math.IsNaN(r) {
			obs = append(obs, r)
		}
	}
	n := len(obs)
	if n < 2 {
		return 0
	}
	mean := 0.0
	for _, r := range obs {
		mean += r
	}
	mean /= float64(n)
	variance := 0.0
	for _, r := range obs {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(n - 1)
	return math.Sqrt(variance) * math.Sqrt(tradingDays)
}

// Sharpe returns (annualReturn - riskFree) / volatility, all in percent.
// It is 0 when the volatility is 0.
func Sharpe(annualReturnPct, volatilityPct, riskFreePct float64) float64 {
	if volatilityPct == 0 {
		return 0
	}
	return (annualReturnPct - riskFreePct) / volatilityPct
}

// Episode is a maximal run of points below the running peak.
type Episode struct {
	Start  date.Date `json:"start"`
	End    date.Date `json:"end"`
	Trough date.Date `json:"trough"`
	// Depth is the deepest drawdown of the episode, in percentage points (<= 0).
	Depth float64 `json:"depth"`
	// Recovered is false when the series ends during the episode.
	Recovered bool `json:"recovered"`
}

// DrawdownPoint is the drawdown at one date.
type DrawdownPoint struct {
	Date     date.Date `json:"date"`
	Drawdown float64   `json:"drawdown"`
}

// DrawdownReport is the drawdown analysis of a cumulative performance series.
type DrawdownReport struct {
	Points   []DrawdownPoint `json:"points"`
	Max      float64         `json:"max"` // deepest drawdown, <= 0
	Episodes []Episode       `json:"episodes"`
}

// Drawdown returns cum[i] - max(cum[0..i]) for each point, and the minimum of these.
// The difference is taken in the unit of cum, percentage points for a TWR in percent.
func Drawdown(cum []float64) (dd []float64, deepest float64) {
	dd = make([]float64, len(cum))
	peak := math.Inf(-1)
	for i, c := range cum {
		peak = math.Max(peak, c)
		dd[i] = c - peak
		deepest = math.Min(deepest, dd[i])
	}
	return dd, deepest
}

// Drawdowns analyses the cumulative TWR column of s.
func Drawdowns(s Series) DrawdownReport {
	dd, deepest := Drawdown(s.Cumulative())
	dates := s.Dates()
	report := DrawdownReport{
		Points:   make([]DrawdownPoint, len(dd)),
		Max:      deepest,
		Episodes: []Episode{},
	}
	var current *Episode
	for i, d := range dd {
		report.Points[i] = DrawdownPoint{Date: dates[i], Drawdown: d}
		if d < -drawdownEpsilon {
			if current == nil {
				current = &Episode{Start: dates[i], Trough: dates[i], Depth: d}
			}
			current.End = dates[i]
			if d < current.Depth {
				current.Depth, current.Trough = d, dates[i]
			}
			continue
		}
		if current != nil {
			current.Recovered = true
			report.Episodes = append(report.Episodes, *current)
			current = nil
		}
	}
	if current != nil {
		report.Episodes = append(report.Episodes, *current)
	}
	return report
}

// MetricsConfig tunes the metrics computation.
type MetricsConfig struct {
	// RiskFreeRate is the annual risk-free rate in percent.
	RiskFreeRate float64
}

// Metrics bundles the performance metrics of a portfolio. Percent values are
// in percent. Unavailable metrics are nil.
type Metrics struct {
	From        date.Date      `json:"from"`
	To          date.Date      `json:"to"`
	Days        int            `json:"days"`
	TWR         Percent        `json:"twr"`
	CAGR        *Percent       `json:"cagr"`
	XIRR        *Percent       `json:"xirr"` // nil when unavailable, or when a single account is selected
	Volatility  Percent        `json:"volatility"`
	Sharpe      float64        `json:"sharpe"`
	MaxDrawdown float64        `json:"maxDrawdown"`
	Drawdowns   DrawdownReport `json:"drawdowns"`
	// Approximated is true when the TWR was chained from valuations rather than provided.
	Approximated bool `json:"approximated,omitempty"`
}

// lastFlowDate returns the latest date of flows, or the zero Date.
func lastFlowDate(flows []CashFlow) date.Date {
	var last date.Date
	for _, f := range flows {
		if f.Date.After(last) {
			last = f.Date
		}
	}
	return last
}

func percentOf(fraction float64) *Percent {
	p := Percent(fraction * 100)
	return &p
}

// ComputeMetrics computes every metric from a performance series and
// investor cash flows. valuation is the terminal value used by XIRR, at asOf.
//
// A failing XIRR only leaves XIRR nil.
func ComputeMetrics(s Series, flows []CashFlow, valuation float64, asOf date.Date, cfg MetricsConfig) *Metrics {
	m := &Metrics{Drawdowns: DrawdownReport{Points: []DrawdownPoint{}, Episodes: []Episode{}}}
	if s.Len() > 0 {
		m.From, m.To = s.At(0).Date, s.At(s.Len()-1).Date
		m.Days = s.Days()
		twr := s.TWR()
		m.TWR = Percent(twr * 100)
		if cagr, ok := CAGR(twr, m.Days); ok {
			m.CAGR = percentOf(cagr)
		}
		m.Volatility = Percent(Volatility(s.DailyReturns()))
		if m.CAGR != nil {
			m.Sharpe = Sharpe(float64(*m.CAGR), float64(m.Volatility), cfg.RiskFreeRate)
		}
		m.Drawdowns = Drawdowns(s)
		m.MaxDrawdown = m.Drawdowns.Max
	}
	if asOf.IsZero() {
		asOf = m.To
	}
	if asOf.IsZero() {
		asOf = lastFlowDate(flows)
	}
	if r, ok := XIRR(flows, valuation, asOf); ok {
		m.XIRR = percentOf(r)
	}
	return m
}
