// Package folio turns broker spreadsheet exports into portfolio analytics.
//
// It reads loosely-structured workbooks exported by UBS and Saxo Bank, and
// derives typed financial events, aggregates and performance metrics from them.
//
// The core functionalities include:
//   - Parsing: locale-aware number parsing ("1'234.50", "1.234,50") and
//     flexible date parsing (ISO, day-first, spreadsheet serials), see the date package.
//   - Detection: recognising the export variant from sheet names, and resolving
//     logical fields (date, description, amount...) to the actual column headers
//     with an exact-then-fuzzy matching.
//   - Classification: turning each transaction row into a FinancialEvent using
//     one multilingual keyword table (French, English, German).
//   - Aggregation: a single pass fold of the events into positions, monthly,
//     quarterly and yearly buckets and global KPIs.
//   - Metrics: TWR, CAGR, XIRR, volatility, Sharpe ratio and drawdowns.
//   - Timeline: chaining monthly valuation snapshots into a time series.
//
// Data quality problems never abort an import: unparseable cells default to
// zero, undated rows are dropped and counted, unresolved columns are reported
// as unverified. Only undecodable workbook bytes are an error, and that
// happens in the workbook package.
//
// This package serves as the foundational logic for the `fa` command-line tool.
package folio
