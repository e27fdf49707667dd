package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"threat-tracker/internal/database"
)

const auditPageSize = 200

func (h *Handlers) ListAuditLogs(c *gin.Context) {
	logs, err := database.RecentAuditLogs(auditPageSize)
	if err != nil {
		h.Log.Error("read audit journal", zap.Error(err))
	}

	render(c, http.StatusOK, "audit_list.html", gin.H{
		"title":   "Audit",
		"enabled": database.Enabled(),
		"logs":    logs,
	})
}
