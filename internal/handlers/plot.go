package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"threat-tracker/internal/chart"
	"threat-tracker/internal/middleware"
	"threat-tracker/internal/risk"
)

const plotSide = 6 * vg.Inch

func (h *Handlers) PlotPage(c *gin.Context) {
	pct, err := h.Store.Percentage()
	if errors.Is(err, risk.ErrNoData) {
		h.flash(c, "/threats", middleware.StatusError, "No threats loaded: nothing to plot.")
		return
	}

	render(c, http.StatusOK, "threats_plot.html", gin.H{
		"title":      "Likelihood vs Impact",
		"count":      h.Store.Len(),
		"percentage": pct,
	})
}

func (h *Handlers) PlotPNG(c *gin.Context) {
	var buf bytes.Buffer
	err := chart.WritePNG(&buf, h.Store.Records(), plotSide)
	if errors.Is(err, risk.ErrNoData) {
		c.String(http.StatusNotFound, risk.ErrNoData.Error())
		return
	}
	if err != nil {
		h.Log.Error("render plot", zap.Error(err))
		c.String(http.StatusInternalServerError, "could not render plot")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
