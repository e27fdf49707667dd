// Package report exports the current threat table.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"gonum.org/v1/plot/vg"

	"threat-tracker/internal/chart"
	"threat-tracker/internal/models"
	"threat-tracker/internal/risk"
)

// column widths in mm, A4 landscape minus margins
var pdfWidths = []float64{20, 105, 20, 24, 24, 38, 24, 22}

var levelFill = map[risk.Level][3]int{
	risk.LevelLow:      {198, 239, 206},
	risk.LevelMedium:   {255, 235, 156},
	risk.LevelHigh:     {255, 199, 140},
	risk.LevelCritical: {255, 160, 160},
}

func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width-2 {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width-2 {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

// WritePDF renders the threat table, the aggregate risk and the scatter
// plot into a single landscape A4 document.
func WritePDF(w io.Writer, records []models.ThreatRecord, percentage float64, generated time.Time) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Threat Risk Report", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Threat Risk Report")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Generated "+generated.Format("2006-01-02 15:04 MST"))
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Overall risk: %.2f%% across %d threats", percentage, len(records)))
	pdf.Ln(12)

	header := append(append([]string{}, models.DisplayColumns...), "Level")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	for i, h := range header {
		pdf.CellFormat(pdfWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range records {
		level := risk.LevelOf(r.RiskScore)
		cells := row(r)
		cells[1] = fit(pdf, tr(cells[1]), pdfWidths[1])
		cells = append(cells, string(level))
		for i, c := range cells {
			align := "C"
			if i == 1 {
				align = "L"
			}
			fill := false
			if i == len(cells)-1 {
				rgb := levelFill[level]
				pdf.SetFillColor(rgb[0], rgb[1], rgb[2])
				fill = true
			}
			pdf.CellFormat(pdfWidths[i], 6, c, "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(records) > 0 {
		var img bytes.Buffer
		if err := chart.WritePNG(&img, records, 5*vg.Inch); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		pdf.AddPage()
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("scatter", opts, &img)
		pdf.ImageOptions("scatter", 75, 15, 130, 130, false, opts, 0, "")
		pdf.SetY(150)
		pdf.SetFont("Helvetica", "", 9)
		pdf.Cell(0, 6, "Points are labelled with threat IDs; "+strconv.Itoa(len(records))+" plotted.")
	}

	return pdf.Output(w)
}
