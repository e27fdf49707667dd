package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"threat-tracker/internal/ingest"
	"threat-tracker/internal/middleware"
	"threat-tracker/internal/models"
	"threat-tracker/internal/risk"
	"threat-tracker/internal/store"
)

// rows listed individually in the status area after a load
const maxRowsShown = 10

// room for the multipart envelope around the file itself
const uploadSlack = 64 << 10

// ====== THREAT TABLE ======

func (h *Handlers) ListThreats(c *gin.Context) {
	threats := h.Store.Records()
	pct, err := h.Store.Percentage()

	render(c, http.StatusOK, "threats_list.html", gin.H{
		"title":      "Threats",
		"columns":    models.DisplayColumns,
		"threats":    threats,
		"percentage": pct,
		"hasScore":   err == nil,
	})
}

// ====== LOAD THREATS ======

func (h *Handlers) LoadThreats(c *gin.Context) {
	tooLarge := fmt.Sprintf("File is too large (limit %d MB).", h.MaxUpload>>20)
	if c.Request.ContentLength > h.MaxUpload+uploadSlack {
		h.Metrics.Load("error", 0)
		h.flash(c, "/threats", middleware.StatusError, tooLarge)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUpload+uploadSlack)

	fh, err := c.FormFile("file")
	if err != nil {
		h.Metrics.Load("error", 0)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.flash(c, "/threats", middleware.StatusError, tooLarge)
			return
		}
		h.flash(c, "/threats", middleware.StatusError, "Select a threat spreadsheet to load.")
		return
	}
	if fh.Size > h.MaxUpload {
		h.Metrics.Load("error", 0)
		h.flash(c, "/threats", middleware.StatusError, tooLarge)
		return
	}
	if !ingest.Supported(fh.Filename) {
		h.Metrics.Load("error", 0)
		h.flash(c, "/threats", middleware.StatusError, loadErrorMessage(ingest.ErrUnsupportedFormat, 0))
		return
	}

	dir, err := os.MkdirTemp("", "threat-upload-*")
	if err != nil {
		h.Log.Error("temp dir for upload", zap.Error(err))
		h.flash(c, "/threats", middleware.StatusError, "Could not store the uploaded file.")
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "upload"+strings.ToLower(filepath.Ext(fh.Filename)))
	if err := c.SaveUploadedFile(fh, path); err != nil {
		h.Log.Error("save upload", zap.String("file", fh.Filename), zap.Error(err))
		h.flash(c, "/threats", middleware.StatusError, "Could not store the uploaded file.")
		return
	}

	res, err := h.LoadFile(path)
	budget := maxFlashBytes
	if len(res.Skipped) > 0 {
		h.addFlash(c, middleware.StatusWarning, rowMessages(res.Skipped, "Skipped", "skipped rows", &budget)...)
	}
	if len(res.Warnings) > 0 {
		h.addFlash(c, middleware.StatusWarning, rowMessages(res.Warnings, "Warning:", "row warnings", &budget)...)
	}
	if err != nil {
		h.flash(c, "/threats", middleware.StatusError, loadErrorMessage(err, len(res.Skipped)))
		return
	}

	h.flash(c, "/threats", middleware.StatusInfo,
		fmt.Sprintf("Loaded %d threats from %s (%d rows skipped). Overall risk: %.2f%%",
			res.Accepted, truncate(fh.Filename, maxFileNameRunes), len(res.Skipped), res.Percentage))
}

// rowMessages lists row problems for the status area. It stops after
// maxRowsShown lines or once budget bytes are used up and summarises the
// rest.
func rowMessages(rows []store.RowError, prefix, more string, budget *int) []string {
	var out []string
	for i, e := range rows {
		line := prefix + " " + e.Error()
		if i == maxRowsShown || len(line) > *budget {
			out = append(out, fmt.Sprintf("... and %d more %s", len(rows)-i, more))
			break
		}
		*budget -= len(line)
		out = append(out, line)
	}
	return out
}

// ====== MITIGATION ======

func threatID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Invalid threat ID")
		return 0, false
	}
	return id, true
}

func (h *Handlers) ShowMitigate(c *gin.Context) {
	id, ok := threatID(c)
	if !ok {
		return
	}

	th, err := h.Store.Get(id)
	if err != nil {
		c.String(http.StatusNotFound, "Threat not found")
		return
	}

	render(c, http.StatusOK, "threat_mitigate.html", gin.H{
		"title":      "Mitigate Threat",
		"threat":     th,
		"likelihood": th.Likelihood,
		"frequency":  th.Frequency,
	})
}

type mitigateForm struct {
	Likelihood string `form:"likelihood"`
	Frequency  string `form:"frequency"`
}

func (h *Handlers) Mitigate(c *gin.Context) {
	id, ok := threatID(c)
	if !ok {
		return
	}

	th, err := h.Store.Get(id)
	if err != nil {
		h.Metrics.Mitigation("not_found")
		c.String(http.StatusNotFound, "Threat not found")
		return
	}

	var form mitigateForm
	_ = c.ShouldBind(&form)

	likelihood, err1 := strconv.Atoi(strings.TrimSpace(form.Likelihood))
	frequency, err2 := strconv.Atoi(strings.TrimSpace(form.Frequency))

	var msg string
	switch {
	case err1 != nil || !risk.InScale(likelihood):
		msg = "Likelihood must be a whole number from 1 to 5"
	case err2 != nil || !risk.InScale(frequency):
		msg = "Frequency must be a whole number from 1 to 5"
	}
	if msg != "" {
		h.Metrics.Mitigation("invalid")
		render(c, http.StatusBadRequest, "threat_mitigate.html", gin.H{
			"title":      "Mitigate Threat",
			"threat":     th,
			"likelihood": form.Likelihood,
			"frequency":  form.Frequency,
			"error":      msg,
		})
		return
	}

	res, err := h.Store.Mitigate(id, likelihood, frequency)
	if errors.Is(err, store.ErrThreatNotFound) {
		// reloaded between Get and Mitigate
		h.Metrics.Mitigation("not_found")
		c.String(http.StatusNotFound, "Threat not found")
		return
	}
	if err != nil {
		h.Metrics.Mitigation("error")
		h.Log.Error("mitigation failed", zap.Int("threat", id), zap.Error(err))
		h.flash(c, "/threats", middleware.StatusError, "Mitigation failed: "+err.Error())
		return
	}

	h.Metrics.Mitigation("ok")
	h.Metrics.State(res.Threats, res.Percentage)
	h.Log.Info("threat mitigated",
		zap.Int("threat", id),
		zap.Int("likelihood_before", res.Before.Likelihood),
		zap.Int("likelihood_after", res.After.Likelihood),
		zap.Int("score_after", res.After.RiskScore),
		zap.Float64("risk_percent", res.Percentage))

	h.audit(res.BatchID, "threat", uint(id), "mitigate",
		fmt.Sprintf("likelihood %d -> %d, frequency %d -> %d, score %d -> %d",
			res.Before.Likelihood, res.After.Likelihood,
			res.Before.Frequency, res.After.Frequency,
			res.Before.RiskScore, res.After.RiskScore))

	h.flash(c, "/threats", middleware.StatusInfo,
		fmt.Sprintf("Threat %d mitigated: score %d -> %d. Overall risk: %.2f%%",
			id, res.Before.RiskScore, res.After.RiskScore, res.Percentage))
}
