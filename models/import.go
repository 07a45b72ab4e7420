package models

type ImportMode string

const (
	ImportModeCreate ImportMode = "create"
	ImportModeUpsert ImportMode = "upsert"
)

// RecordError attributes a failure to a single record of an import
// batch; Index is zero-based over the parsed records.
type RecordError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ImportResult is the per-batch summary. TotalRecords is always
// SuccessCount + ErrorCount; a failing record never aborts the batch.
type ImportResult struct {
	TotalRecords int           `json:"totalRecords"`
	SuccessCount int           `json:"successCount"`
	ErrorCount   int           `json:"errorCount"`
	Errors       []RecordError `json:"errors,omitempty"`
}
