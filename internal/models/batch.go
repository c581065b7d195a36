package models

// BatchResult reports the outcome of one feed batch run through the pipeline.
type BatchResult struct {
	Inserted int
	Skipped  int
	Failed   int
}

// ImportResult reports the outcome of an additive document merge.
type ImportResult struct {
	Added            int
	Skipped          int
	LastSavedEntryID int64
}
