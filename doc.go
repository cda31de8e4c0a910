// Package folio reconciles brokerage activity into a local trade ledger and
// derives account reporting from it. It is designed to be local-first and
// auditable: the ledger on disk is the single source of truth, and every
// report is recomputed from it on demand.
//
// The core functionalities include:
//   - Ledger Management: Merging fetched trades and dividends into a
//     deduplicated ledger, keyed by a content hash so that re-fetching the
//     same activity is always a no-op.
//   - Incremental Sync: A windowed, watermark-driven fetch of brokerage
//     activity that can be interrupted and resumed without losing or
//     duplicating records.
//   - Accounting System: A stateless average-cost engine that reconstructs
//     stock and crypto positions, realized P&L, capital gains, and dividend
//     income from the ledger.
//   - Currency Conversion: Tri-currency (native/CAD/USD) valuations backed by
//     Bank of Canada exchange rates, historical and live.
//   - Data Persistence: Human-readable JSON blobs for the ledger, stock
//     splits, and the sync cursor.
//
// This package serves as the foundational logic for the `folio` command-line
// tool.
package folio
