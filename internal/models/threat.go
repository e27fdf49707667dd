package models

// Required input columns of a threat spreadsheet.
const (
	ColDescription     = "Threat Description"
	ColImpact          = "Impact (1-5)"
	ColLikelihood      = "Likelihood (1-5)"
	ColFinancialImpact = "Financial Impact ($)"
	ColFrequency       = "Threat Event Frequency (1-5)"
)

// RequiredColumns lists the input columns in the order they are checked.
var RequiredColumns = []string{
	ColDescription,
	ColImpact,
	ColLikelihood,
	ColFinancialImpact,
	ColFrequency,
}

// DisplayColumns is the header of the threat table (UI, CSV, PDF).
var DisplayColumns = []string{
	"Threat ID",
	"Threat Description",
	"Impact",
	"Likelihood",
	"Frequency",
	"Financial Impact",
	"Risk Score",
}

// ThreatRecord is one loaded threat. ID is the 1-based position among the
// accepted rows of the last load; it is not stable across reloads.
type ThreatRecord struct {
	ID              int     `json:"id"`
	Description     string  `json:"description"`
	Impact          int     `json:"impact"`
	Likelihood      int     `json:"likelihood"`
	Frequency       int     `json:"frequency"`        // informational
	FinancialImpact float64 `json:"financial_impact"` // informational, $
	RiskScore       int     `json:"risk_score"`
}

// Table is the raw output of a spreadsheet: a header row plus data rows,
// all cells as text. RowNumbers, when set, holds the spreadsheet row number
// of each entry in Rows so that dropped blank rows do not shift reports.
type Table struct {
	Header     []string
	Rows       [][]string
	RowNumbers []int
}

// ColumnIndex returns the position of name in the header or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// MissingColumns returns the required columns absent from the header.
func (t *Table) MissingColumns() []string {
	var missing []string
	for _, c := range RequiredColumns {
		if t.ColumnIndex(c) < 0 {
			missing = append(missing, c)
		}
	}
	return missing
}
