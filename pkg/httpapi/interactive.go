package httpapi

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/audio"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/logging"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/model"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/notes"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/utils"
)

const interactiveHint = "Make sure you have a valid Gemini API key and the audio file is in a supported format."

// InteractiveHandler serves the single-page meeting notes UI.
type InteractiveHandler struct {
	service        *notes.Service
	maxUploadBytes int64
}

func NewInteractiveHandler(service *notes.Service, maxUploadBytes int64) *InteractiveHandler {
	return &InteractiveHandler{service: service, maxUploadBytes: maxUploadBytes}
}

func (h *InteractiveHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.showForm)
	r.POST("", h.processMeeting)
}

type notesPage struct {
	Accept        string
	Formats       []string
	HasDefaultKey bool
	FileName      string
	FileSizeMB    string
	Warning       string
	Error         string
	Hint          string
	Panels        []resultPanel
}

type resultPanel struct {
	ID            string
	Tab           string
	Heading       string
	Body          string
	DownloadLabel string
	DownloadName  string
	DownloadURL   template.URL
}

func (h *InteractiveHandler) newPage() notesPage {
	return notesPage{
		Accept:        audio.AcceptAttribute(audio.InteractiveExtensions),
		Formats:       audio.InteractiveExtensions,
		HasDefaultKey: h.service.HasCredential(),
	}
}

func (h *InteractiveHandler) showForm(c *gin.Context) {
	page := h.newPage()
	if !page.HasDefaultKey {
		page.Warning = model.MessageMissingAPIKey
	}
	c.HTML(http.StatusOK, "notes.html", page)
}

func (h *InteractiveHandler) processMeeting(c *gin.Context) {
	page := h.newPage()

	if err := parseUpload(c, h.maxUploadBytes); err != nil {
		h.renderError(c, page, err)
		return
	}
	payload, err := readAudio(c)
	if err != nil {
		h.renderError(c, page, err)
		return
	}
	page.FileName = payload.FileName
	page.FileSizeMB = fmt.Sprintf("%.2f", float64(payload.Size())/1024/1024)

	result, err := h.service.ProcessInteractive(c.Request.Context(), payload, c.PostForm("apiKey"))
	if err != nil {
		h.renderError(c, page, err)
		return
	}

	page.Panels = buildPanels(result)
	c.HTML(http.StatusOK, "notes.html", page)
}

func (h *InteractiveHandler) renderError(c *gin.Context, page notesPage, err error) {
	switch {
	case errors.Is(err, errUploadTooLarge):
		page.Error = model.MessageFileTooLarge
		c.HTML(http.StatusRequestEntityTooLarge, "notes.html", page)
	case model.IsValidation(err) && model.MessageOf(err) == model.MessageMissingAPIKey:
		page.Warning = model.MessageMissingAPIKey
		c.HTML(http.StatusBadRequest, "notes.html", page)
	case model.IsValidation(err):
		page.Error = model.MessageOf(err)
		c.HTML(http.StatusBadRequest, "notes.html", page)
	default:
		log := logging.NewLogger(c.Request.Context())
		log.Errorf("Error processing audio: %v", err)
		utils.PrintStack("interactive notes", log)
		page.Error = "Error processing audio: " + model.MessageOf(err)
		page.Hint = interactiveHint
		c.HTML(http.StatusInternalServerError, "notes.html", page)
	}
}

func buildPanels(result model.MeetingNotes) []resultPanel {
	return []resultPanel{
		newPanel("transcription", "📝 Transcription", "Transcription", "Download Transcription", "transcription.txt", result.Transcription),
		newPanel("summary", "📋 Summary", "Meeting Summary", "Download Summary", "summary.txt", result.Summary),
		newPanel("action-items", "✅ Action Items", "Action Items", "Download Action Items", "action_items.txt", result.ActionItems),
	}
}

func newPanel(id, tab, heading, label, fileName, body string) resultPanel {
	return resultPanel{
		ID:            id,
		Tab:           tab,
		Heading:       heading,
		Body:          body,
		DownloadLabel: label,
		DownloadName:  fileName,
		DownloadURL:   textDataURL(body),
	}
}

// textDataURL embeds the raw text so the download needs no server state.
func textDataURL(text string) template.URL {
	return template.URL("data:text/plain;charset=utf-8;base64," + base64.StdEncoding.EncodeToString([]byte(text)))
}
