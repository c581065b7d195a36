// Package handlers implements the HTTP API layer for the journal-tracker.
//
// Handlers delegate business logic to the services layer and focus on request
// validation, response formatting, and HTTP semantics.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Request validation                                           │
//	│  - Parameter parsing                                            │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion                                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│  Tracker │ Stats │ Logs │ Transfer                              │
//	└─────────────────────────────────────────────────────────────────┘
//
// # API Endpoints
//
// Entry Endpoints (entries.go):
//
//	┌────────┬──────────────────────┬─────────────────────────────────┐
//	│ Method │ Endpoint             │ Description                     │
//	├────────┼──────────────────────┼─────────────────────────────────┤
//	│ POST   │ /entries             │ Push a batch of raw entries     │
//	│ POST   │ /entries/rescrape    │ Trigger an immediate re-scrape  │
//	└────────┴──────────────────────┴─────────────────────────────────┘
//
// Listing Endpoints (logs.go):
//
//	┌────────┬──────────┬─────────────────────────────────────────────┐
//	│ Method │ Endpoint │ Description                                 │
//	├────────┼──────────┼─────────────────────────────────────────────┤
//	│ GET    │ /logs    │ List stored records, filtered and paginated │
//	└────────┴──────────┴─────────────────────────────────────────────┘
//
// Aggregate Endpoints (stats.go):
//
//	┌────────┬────────────┬───────────────────────────────────────────┐
//	│ Method │ Endpoint   │ Description                               │
//	├────────┼────────────┼───────────────────────────────────────────┤
//	│ GET    │ /stats     │ Per-location totals for a year            │
//	│ GET    │ /forecast  │ Next expected report forecast             │
//	└────────┴────────────┴───────────────────────────────────────────┘
//
// Transfer Endpoints (transfer.go):
//
//	┌────────┬─────────────────┬──────────────────────────────────────┐
//	│ Method │ Endpoint        │ Description                          │
//	├────────┼─────────────────┼──────────────────────────────────────┤
//	│ GET    │ /export         │ Download the full document (JSON)    │
//	│ GET    │ /export/report  │ Download the stats report (xlsx)     │
//	│ POST   │ /import         │ Additively merge an uploaded export  │
//	└────────┴─────────────────┴──────────────────────────────────────┘
//
// # Batch Ingest
//
// POST /entries - Consumes one feed batch:
//
// Request:
//
//	{
//	    "entries": [
//	        { "id": 1001, "kind": "visit", "text": "..." },
//	        { "id": 1002, "kind": "summary", "text": "..." }
//	    ]
//	}
//
// Response:
//
//	{ "inserted": 2, "skipped": 0, "failed": 0 }
//
// Unparseable entries are counted under "failed" and skipped; duplicate ids
// are counted under "skipped". Neither aborts the batch, so redelivery of a
// batch is safe.
//
// Errors:
//   - 400 Bad Request: malformed body or empty batch
//   - 500 Internal Server Error: flush failure (in-memory state is kept)
//
// # Listing
//
// GET /logs - Lists stored records.
//
// Query Parameters:
//
//	┌────────────┬──────────┬─────────────────────────────────────────┐
//	│ Parameter  │ Type     │ Description                             │
//	├────────────┼──────────┼─────────────────────────────────────────┤
//	│ partitions │ []string │ Filter by partition key (OR logic)      │
//	│ kinds      │ []string │ Filter by entry kind (OR logic)         │
//	│ locations  │ []string │ Filter by location name (OR logic)      │
//	│ page       │ int      │ Page number (default: 1)                │
//	│ pageSize   │ int      │ Items per page (default: 20, max: 100)  │
//	└────────────┴──────────┴─────────────────────────────────────────┘
//
// # Aggregates
//
// GET /stats?year=2024 - Returns per-location totals. With no year the
// current event year is used. The "cached" flag is true when the live source
// was unavailable and the totals come entirely from persisted data.
//
// GET /forecast - Returns the next expected report time, a human-readable
// countdown, and the missed-cycle correction. 404 when no report has been
// observed yet.
//
// # Error Handling
//
// Handlers use consistent error response format:
//
//	{ "error": "error message" }
//
// HTTP Status Code Mapping:
//
//	┌─────────────────────────────┬────────┬──────────────────────────────┐
//	│ Error Type                  │ Status │ When                         │
//	├─────────────────────────────┼────────┼──────────────────────────────┤
//	│ Validation error            │ 400    │ Invalid request params       │
//	│ ImportFormatError           │ 400    │ Wrong-shaped import document │
//	│ No report observed          │ 404    │ Forecast without data        │
//	│ No trigger configured       │ 409    │ Re-scrape without a feed URL │
//	│ Internal error              │ 500    │ Unexpected service errors    │
//	└─────────────────────────────┴────────┴──────────────────────────────┘
//
// # Model Conversion
//
// Handlers convert between internal models and API types using extension
// functions defined in api/v1/extension.go.
//
// # Framework
//
// The package uses the Gin web framework. Routes are registered through
// v1.RegisterHandlers in api/v1/routes.go.
package handlers
