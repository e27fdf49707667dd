package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"threat-tracker/internal/middleware"
)

// Status messages travel in the session cookie, which browsers cap at 4 KB
// after encoding roughly doubles it.
const (
	maxFlashBytes    = 1200
	maxFileNameRunes = 64
)

// render wraps c.HTML and passes the pending status messages put into the
// context by middleware.InjectStatus to every template.
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Status"] = middleware.StatusMessages(c)
	c.HTML(status, tmpl, data)
}

// flash stores status messages for the next page and redirects there.
// Messages queued earlier with addFlash are saved along with them.
func (h *Handlers) flash(c *gin.Context, to string, kind middleware.StatusKind, msgs ...string) {
	h.addFlash(c, kind, msgs...)
	h.saveFlashes(c, kind, msgs)
	c.Redirect(http.StatusFound, to)
}

// addFlash queues messages without saving; the next flash call writes them.
func (h *Handlers) addFlash(c *gin.Context, kind middleware.StatusKind, msgs ...string) {
	sess := sessions.Default(c)
	for _, m := range msgs {
		sess.AddFlash(m, string(kind))
	}
}

// saveFlashes writes the session cookie. If the queued messages do not
// fit, they are dropped and only keep is stored.
func (h *Handlers) saveFlashes(c *gin.Context, kind middleware.StatusKind, keep []string) {
	sess := sessions.Default(c)
	err := sess.Save()
	if err == nil {
		return
	}
	h.Log.Warn("status messages dropped", zap.Error(err))

	sess.Clear()
	for _, m := range keep {
		sess.AddFlash(truncate(m, maxFlashBytes/4), string(kind))
	}
	if err := sess.Save(); err != nil {
		h.Log.Error("status message lost", zap.Strings("messages", keep), zap.Error(err))
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
