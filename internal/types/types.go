package types

// Match is one narrative row flagged by the keyword scan.
type Match struct {
	ReportNumber string
	TimeDate     string
	Risks        []string
}

// FileReport summarizes the scan of a single workbook.
type FileReport struct {
	Name    string
	Matches int
	Err     error
}

// ScanResult aggregates a whole folder scan in traversal order.
type ScanResult struct {
	Matches []Match
	Files   []FileReport
}
