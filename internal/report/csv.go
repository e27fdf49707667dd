package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"threat-tracker/internal/models"
)

func row(r models.ThreatRecord) []string {
	return []string{
		strconv.Itoa(r.ID),
		r.Description,
		strconv.Itoa(r.Impact),
		strconv.Itoa(r.Likelihood),
		strconv.Itoa(r.Frequency),
		strconv.FormatFloat(r.FinancialImpact, 'f', 2, 64),
		strconv.Itoa(r.RiskScore),
	}
}

// WriteCSV writes the threat table followed by an aggregate line.
func WriteCSV(w io.Writer, records []models.ThreatRecord, percentage float64) error {
	cw := csv.NewWriter(w)
	_ = cw.Write(models.DisplayColumns)
	for _, r := range records {
		_ = cw.Write(row(r))
	}
	_ = cw.Write([]string{"Aggregate Risk (%)", fmt.Sprintf("%.2f", percentage)})
	cw.Flush()
	return cw.Error()
}
