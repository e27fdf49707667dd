package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"threat-tracker/internal/middleware"
	"threat-tracker/internal/report"
	"threat-tracker/internal/risk"
)

func (h *Handlers) ExportCSV(c *gin.Context) {
	h.export(c, "threats.csv", "text/csv; charset=utf-8", func(buf *bytes.Buffer, pct float64) error {
		return report.WriteCSV(buf, h.Store.Records(), pct)
	})
}

func (h *Handlers) ExportPDF(c *gin.Context) {
	h.export(c, "threats.pdf", "application/pdf", func(buf *bytes.Buffer, pct float64) error {
		return report.WritePDF(buf, h.Store.Records(), pct, h.Now())
	})
}

func (h *Handlers) export(c *gin.Context, name, contentType string, write func(*bytes.Buffer, float64) error) {
	pct, err := h.Store.Percentage()
	if errors.Is(err, risk.ErrNoData) {
		h.flash(c, "/threats", middleware.StatusError, "No threats loaded: nothing to export.")
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, pct); err != nil {
		h.Log.Error("export failed", zap.String("file", name), zap.Error(err))
		h.flash(c, "/threats", middleware.StatusError, "Export failed: "+err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
