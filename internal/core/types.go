package core

// Row maps column name to cell value for one CSV record.
type Row map[string]string

// Issue is a single validation finding.
// Row is the 1-based record number counting the header as 1; 0 marks a
// header-level issue.
type Issue struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

// IsHeader reports whether the issue concerns the header rather than a data row.
func (i Issue) IsHeader() bool {
	return i.Row == 0
}

// Result contains the outcome of validating one file.
type Result struct {
	Header   []string // Header as read; nil when the file had none
	Issues   []Issue  // In discovery order
	RowCount int      // Number of data rows processed
	Rows     []Row    // Cleaned rows, one per data row, ready for write-back
}

// OK reports whether validation found no issues.
func (r *Result) OK() bool {
	return len(r.Issues) == 0
}

func (r *Result) add(row int, column, message string) {
	r.Issues = append(r.Issues, Issue{Row: row, Column: column, Message: message})
}
