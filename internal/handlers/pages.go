package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func IndexPage(c *gin.Context) {
	c.Redirect(http.StatusFound, "/threats")
}

func Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
