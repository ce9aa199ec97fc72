// Package importer seeds and refreshes the record store from an upstream
// catalog.
//
// Import walks the popular listing page by page, skips items without a poster
// or already stored, fetches details with credits, normalizes them, and
// persists each page's batch in one transaction. Refresh re-reads ratings for
// records that have not been updated for a while. Both run every upstream call
// under a bounded timeout and isolate failures per item and per page: they
// return a Report, never an error.
package importer
