package model

// Validation issue types.
const (
	IssueMissingDate        = "missing_date"
	IssueMissingDescription = "missing_description"
	IssueMissingAmount      = "missing_amount"
	IssueZeroAmount         = "zero_amount"
)

// Validation severities.
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// ValidationIssue is a non-fatal defect found after extraction. Issues
// accumulate as warnings; they never block processing.
type ValidationIssue struct {
	Rows     []int // 1-based source row numbers
	Type     string
	Message  string
	Severity string
}
