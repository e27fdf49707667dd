package handlers

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"threat-tracker/internal/database"
	"threat-tracker/internal/ingest"
	"threat-tracker/internal/metrics"
	"threat-tracker/internal/store"
)

// Handlers serves the UI for one ThreatStore.
type Handlers struct {
	Store     *store.ThreatStore
	Log       *zap.Logger
	Metrics   *metrics.Recorder
	MaxUpload int64 // bytes
	Now       func() time.Time
}

func New(s *store.ThreatStore, log *zap.Logger, m *metrics.Recorder, maxUpload int64) *Handlers {
	return &Handlers{
		Store:     s,
		Log:       log,
		Metrics:   m,
		MaxUpload: maxUpload,
		Now:       time.Now,
	}
}

// LoadFile reads path and replaces the store contents with its threats.
// Used by the upload handler and by the startup THREATS_FILE load.
func (h *Handlers) LoadFile(path string) (store.LoadResult, error) {
	tbl, err := ingest.ReadFile(path)
	if err != nil {
		h.Metrics.Load("error", 0)
		h.Log.Warn("threat file rejected", zap.String("path", path), zap.Error(err))
		return store.LoadResult{}, err
	}

	res, err := h.Store.Load(tbl)
	for _, rowErr := range res.Skipped {
		h.Log.Info("row skipped", zap.Int("row", rowErr.Row), zap.String("field", rowErr.Field),
			zap.String("value", rowErr.Value), zap.String("reason", rowErr.Reason))
	}
	for _, w := range res.Warnings {
		h.Log.Info("row defaulted", zap.Int("row", w.Row), zap.String("field", w.Field),
			zap.String("value", w.Value), zap.String("reason", w.Reason))
	}
	if err != nil {
		h.Metrics.Load("error", len(res.Skipped))
		h.Log.Warn("threat load failed", zap.String("path", path), zap.Error(err))
		return res, err
	}

	h.Metrics.Load("ok", len(res.Skipped))
	h.Metrics.State(res.Accepted, res.Percentage)
	h.Log.Info("threats loaded",
		zap.String("batch", res.BatchID),
		zap.Int("accepted", res.Accepted),
		zap.Int("skipped", len(res.Skipped)),
		zap.Int("warnings", len(res.Warnings)),
		zap.Float64("risk_percent", res.Percentage))

	details := fmt.Sprintf("loaded %d threats, skipped %d rows, %d row warnings, overall risk %.2f%%",
		res.Accepted, len(res.Skipped), len(res.Warnings), res.Percentage)
	h.audit(res.BatchID, "batch", 0, "load", details)
	return res, nil
}

func (h *Handlers) audit(batchID, entity string, entityID uint, action, details string) {
	if err := database.CreateAuditLog(batchID, entity, entityID, action, details); err != nil {
		h.Log.Error("audit write failed", zap.String("action", action), zap.Error(err))
	}
}

// loadErrorMessage maps a load failure to the status line shown to the user.
func loadErrorMessage(err error, skipped int) string {
	switch {
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		return "Unsupported file type. Use .xlsx, .xlsm or .csv."
	case errors.Is(err, ingest.ErrEmptyFile):
		return "The file is empty."
	case errors.Is(err, ingest.ErrMissingColumn), errors.Is(err, store.ErrMissingColumn):
		return "Could not load threats: " + err.Error()
	case skipped > 0:
		return fmt.Sprintf("No valid threats in file: all %d rows were skipped.", skipped)
	default:
		return "Could not load threats: " + err.Error()
	}
}
