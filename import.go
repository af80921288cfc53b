package folio

import (
	"context"
	"fmt"
	"maps"
	"runtime"
	"slices"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Importer runs the import pipeline: detection, classification, aggregation and metrics.
type Importer struct {
	Profile    Profile
	Classifier *Classifier
	Master     MasterLayout
	Metrics    MetricsConfig
	Currency   string
	Logger     *zap.Logger
}

// NewImporter creates an importer from a validated configuration.
// A nil logger discards logs.
func NewImporter(cfg *Config, logger *zap.Logger) (*Importer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c, err := NewClassifier(cfg.Keywords)
	if err != nil {
		return nil, err
	}
	return &Importer{
		Profile:    cfg.Profile,
		Classifier: c,
		Master:     cfg.Master,
		Metrics:    MetricsConfig{RiskFreeRate: cfg.RiskFreeRate},
		Currency:   cfg.Currency,
		Logger:     logger,
	}, nil
}

func (im *Importer) logger() *zap.Logger {
	if im.Logger == nil {
		return zap.NewNop()
	}
	return im.Logger
}

// profileFor returns the profile to read a format with. Saxo performance
// exports are always read with a Saxo profile.
func (im *Importer) profileFor(format FormatTag) Profile {
	if format == SaxoPerformance && im.Profile.Broker != Saxo.Broker {
		return Saxo
	}
	return im.Profile
}

// Import reads a decoded workbook.
//
// It never fails: data quality problems result in dropped rows, counted in
// Result.Stats, and unverified columns listed in Result.Unverified.
func (im *Importer) Import(wb Workbook, filter Filter) *Result {
	log := im.logger()
	names := wb.SheetNames()
	format := DetectFormat(names)
	profile := im.profileFor(format)
	log.Debug("workbook detected", zap.String("format", string(format)), zap.Strings("sheets", names))

	txn := transactionSheet(wb, format, profile)

	var (
		events  []FinancialEvent
		stats   Stats
		mapping ColumnMapping
		sampled bool
	)
	accounts := make(map[string]struct{})
	if txn != nil {
		rows := txn.Rows()
		var sample Row
		sample, sampled = SampleRow(rows)
		if sampled {
			mapping = ResolveColumns(sample, profile, TransactionFields)
			if u := mapping.Unverified(); len(u) > 0 {
				log.Warn("unverified column mapping", zap.String("sheet", txn.Name), zap.Any("fields", u), zap.Any("mapping", mapping))
			}
		}
		for _, row := range rows {
			if !sampled || row.IsBlank() {
				continue
			}
			stats.Rows++
			if acc := row.Text(mapping, FieldAccount); acc != "" {
				accounts[acc] = struct{}{}
			}
			e, outcome := im.Classifier.Classify(row, mapping)
			switch outcome {
			case Undated:
				stats.Undated++
			case Unmatched:
				stats.Other++
			default:
				events = append(events, e)
			}
		}
		if stats.Undated > 0 || stats.Other > 0 {
			log.Debug("dropped rows", zap.String("sheet", txn.Name), zap.Int("undated", stats.Undated), zap.Int("other", stats.Other))
		}
	}

	res := Aggregate(events, filter)
	res.Broker = profile.Broker
	res.Format = format
	res.Currency = im.Currency
	res.SheetNames = append(res.SheetNames, names...)
	if sampled {
		res.ColMapping = mapping
		res.Unverified = append(res.Unverified, mapping.Unverified()...)
	}
	for acc := range accounts {
		if !slices.Contains(res.Accounts, acc) {
			res.Accounts = append(res.Accounts, acc)
		}
	}
	slices.Sort(res.Accounts)
	stats.Events = res.Stats.Events
	res.Stats = stats

	// total value
	var asOf date.Date
	if snap, ok := ReadSnapshot(wb, "", profile, im.Master); format == UBSMaster && ok {
		res.KPIs.TotalValue = decimal.NewFromFloat(snap.Value)
		asOf = snap.Date
	} else if pos := findSheet(wb, profile.PositionSheets); pos != nil {
		if v, ok := PositionsValue(pos, profile); ok {
			res.KPIs.TotalValue = decimal.NewFromFloat(v)
		}
	}

	// performance series
	var series Series
	if perf := findSheet(wb, profile.PerformanceSheets); perf != nil {
		var undated int
		series, _, undated = ReadSeries(perf, profile)
		res.Stats.Undated += undated
	}

	// the valuation covers every account: flows of one account cannot be
	// discounted against it.
	var flows []CashFlow
	if !filter.SingleAccount() {
		flows = CashFlowsFromEvents(filtered(events, filter))
	}
	valuation := res.KPIs.TotalValue.InexactFloat64()
	if last, ok := series.Last(); ok {
		asOf = last.Date
		if valuation == 0 {
			valuation = last.AccountValue
		}
	}
	if asOf.IsZero() && res.DateRange != nil {
		asOf = res.DateRange.Max
	}
	if series.Len() > 0 || (len(flows) > 0 && valuation != 0) {
		res.Metrics = ComputeMetrics(series, flows, valuation, asOf, im.Metrics)
		if res.Metrics.XIRR == nil && len(flows) > 0 {
			log.Info("xirr unavailable", zap.Int("flows", len(flows)), zap.Float64("valuation", valuation))
		}
	}
	return res
}

// transactionSheet returns the sheet holding the transactions, or nil.
func transactionSheet(wb Workbook, format FormatTag, p Profile) *Sheet {
	if names := wb.SheetNames(); format == SimpleCSV && len(names) > 0 {
		return wb.Sheet(names[0])
	}
	return findSheet(wb, p.TransactionSheets)
}

// Detection describes how a workbook is read, without reading its rows.
type Detection struct {
	Format     FormatTag     `json:"format"`
	Broker     string        `json:"broker"`
	Sheets     []string      `json:"sheets"`
	Sheet      string        `json:"sheet,omitempty"` // transaction or performance sheet
	Mapping    ColumnMapping `json:"mapping"`
	Unverified []Field       `json:"unverified"`
}

// Detect returns the format of wb and the column mapping of its transaction
// sheet, or of its performance sheet when there are no transactions.
func (im *Importer) Detect(wb Workbook) Detection {
	names := wb.SheetNames()
	format := DetectFormat(names)
	profile := im.profileFor(format)
	d := Detection{Format: format, Broker: profile.Broker, Sheets: names, Unverified: []Field{}}

	sheet, fields := transactionSheet(wb, format, profile), TransactionFields
	if sheet == nil {
		sheet, fields = findSheet(wb, profile.PerformanceSheets), SeriesFields
	}
	if sheet == nil {
		return d
	}
	d.Sheet = sheet.Name
	if sample, ok := SampleRow(sheet.Rows()); ok {
		d.Mapping = ResolveColumns(sample, profile, fields)
		d.Unverified = append(d.Unverified, d.Mapping.Unverified()...)
	}
	return d
}

// ImportFiles decodes and imports several workbooks concurrently, then merges the results.
// Only decoding errors are returned.
func (im *Importer) ImportFiles(ctx context.Context, paths []string, open OpenFunc, filter Filter) (*Result, error) {
	results := make([]*Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			wb, err := open(path)
			if err != nil {
				return fmt.Errorf("could not import %q: %w", path, err)
			}
			results[i] = im.Import(wb, filter)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return Merge(results...), nil
}

// Timeline loads monthly valuation files and chains them into a timeline.
//
// The metrics of the result are computed on the chained returns and flagged
// as approximated.
func (im *Importer) Timeline(ctx context.Context, paths []string, open OpenFunc) (*Result, error) {
	log := im.logger()
	snapshots, skipped, err := LoadSnapshots(ctx, paths, open, im.Profile, im.Master)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		log.Warn("files without valuation or date", zap.Strings("files", skipped))
	}
	t := BuildTimeline(snapshots)
	res := EmptyResult(im.Profile.Broker, UBSMaster, nil)
	res.Currency = im.Currency
	res.Timeline = &t
	accounts := make(map[string]struct{})
	for _, s := range snapshots {
		for acc := range s.Accounts {
			accounts[acc] = struct{}{}
		}
	}
	res.Accounts = slices.Sorted(maps.Keys(accounts))
	if res.Accounts == nil {
		res.Accounts = []string{}
	}
	if last, ok := t.Last(); ok {
		res.KPIs.TotalValue = decimal.NewFromFloat(last.Value)
		res.DateRange = &DateRange{Min: t.Points[0].Date, Max: last.Date}
		res.Metrics = ComputeMetrics(t.Series(), nil, 0, last.Date, im.Metrics)
		res.Metrics.Approximated = true
	}
	return res, nil
}

func filtered(events []FinancialEvent, filter Filter) []FinancialEvent {
	out := make([]FinancialEvent, 0, len(events))
	for _, e := range events {
		if filter.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
