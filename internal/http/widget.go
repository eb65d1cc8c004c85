package http

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/index.html
var widgetHTML []byte

// ServeWidget maneja GET / con la página del widget de chat.
func ServeWidget(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", widgetHTML)
}
