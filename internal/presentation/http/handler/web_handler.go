package handler

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed web/index.html
var indexPage []byte

// WebHandler serves the entry form page.
type WebHandler struct{}

// NewWebHandler creates a new web handler
func NewWebHandler() *WebHandler {
	return &WebHandler{}
}

// Index serves the single-page form.
func (h *WebHandler) Index(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
}
