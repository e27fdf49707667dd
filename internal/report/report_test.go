package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threat-tracker/internal/models"
)

func records() []models.ThreatRecord {
	return []models.ThreatRecord{
		{ID: 1, Description: "Phishing, targeted", Impact: 2, Likelihood: 3, Frequency: 4, FinancialImpact: 1000, RiskScore: 6},
		{ID: 2, Description: "Ransomware", Impact: 5, Likelihood: 5, Frequency: 2, FinancialImpact: 250000.5, RiskScore: 25},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records(), 62))

	cr := csv.NewReader(&buf)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, models.DisplayColumns, rows[0])
	assert.Equal(t, []string{"1", "Phishing, targeted", "2", "3", "4", "1000.00", "6"}, rows[1])
	assert.Equal(t, "250000.50", rows[2][5])
	assert.Equal(t, []string{"Aggregate Risk (%)", "62.00"}, rows[3])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	require.NoError(t, WritePDF(&buf, records(), 62, at))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWritePDFEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, nil, 0, time.Now()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWritePDFLongDescription(t *testing.T) {
	recs := records()
	recs[0].Description = string(bytes.Repeat([]byte("very long threat description "), 20))

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, recs, 62, time.Now()))
	assert.NotZero(t, buf.Len())
}
