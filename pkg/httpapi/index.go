package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/audio"
)

type indexPage struct {
	Accept         string
	Extensions     []string
	MaxUploadBytes int64
}

// showIndex serves the browser front-end. The upload limit is rendered into
// the page so oversized files are rejected before they are sent.
func showIndex(maxUploadBytes int64) gin.HandlerFunc {
	page := indexPage{
		Accept:         audio.AcceptAttribute(audio.WebExtensions),
		Extensions:     audio.WebExtensions,
		MaxUploadBytes: maxUploadBytes,
	}
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", page)
	}
}
