package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StatusKind string

const (
	StatusInfo    StatusKind = "info"
	StatusWarning StatusKind = "warning"
	StatusError   StatusKind = "error"
)

// Status is one line of the status area above the page content.
type Status struct {
	Kind StatusKind
	Text string
}

const statusKey = "Status"

var statusOrder = []StatusKind{StatusError, StatusWarning, StatusInfo}

// InjectStatus moves flashed messages from the session into the request
// context, so each message is shown exactly once. If the emptied session
// cannot be saved it is cleared, so the same messages do not come back.
func InjectStatus(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		var msgs []Status
		for _, kind := range statusOrder {
			for _, f := range sess.Flashes(string(kind)) {
				if text, ok := f.(string); ok {
					msgs = append(msgs, Status{Kind: kind, Text: text})
				}
			}
		}
		if len(msgs) > 0 {
			if err := sess.Save(); err != nil {
				log.Warn("consumed status messages not saved", zap.Error(err))
				sess.Clear()
				if err := sess.Save(); err != nil {
					log.Error("session reset failed", zap.Error(err))
				}
			}
			c.Set(statusKey, msgs)
		}

		c.Next()
	}
}

// StatusMessages returns what InjectStatus found for this request.
func StatusMessages(c *gin.Context) []Status {
	v, ok := c.Get(statusKey)
	if !ok {
		return nil
	}
	msgs, _ := v.([]Status)
	return msgs
}
