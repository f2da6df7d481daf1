package httpapi

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/logging"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/notes"
)

const requestIDHeader = "X-Request-ID"

//go:embed templates/*.html
var templatesFS embed.FS

type RouterConfig struct {
	MaxUploadBytes int64
}

func NewRouter(service *notes.Service, cfg RouterConfig) http.Handler {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(requestID(), requestLogger(), gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templatesFS, "templates/*.html")))

	audioHandler := NewAudioHandler(service, cfg.MaxUploadBytes)
	interactiveHandler := NewInteractiveHandler(service, cfg.MaxUploadBytes)

	r.GET("/", showIndex(cfg.MaxUploadBytes))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	audioHandler.RegisterRoutes(r.Group("/api"))
	interactiveHandler.RegisterRoutes(r.Group("/notes"))

	return r
}

// requestID tags the request context so every log line carries request_id.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.NewLogger(c.Request.Context()).Infof(
			"http_request method=%s path=%s status=%d latency_ms=%d",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start).Milliseconds(),
		)
	}
}
