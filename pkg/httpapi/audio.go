package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/logging"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/model"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/notes"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/utils"
)

type AudioHandler struct {
	service        *notes.Service
	maxUploadBytes int64
}

func NewAudioHandler(service *notes.Service, maxUploadBytes int64) *AudioHandler {
	return &AudioHandler{service: service, maxUploadBytes: maxUploadBytes}
}

func (h *AudioHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/process-audio", h.processAudio)
	r.POST("/process-audio-single", h.processAudioSingle)
}

type processAudioResponse struct {
	Success bool `json:"success"`
	model.MeetingNotes
}

type processAudioSingleResponse struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
}

func (h *AudioHandler) processAudio(c *gin.Context) {
	if err := parseUpload(c, h.maxUploadBytes); err != nil {
		handleProcessingError(c, err)
		return
	}

	payload, err := readAudio(c)
	if err != nil {
		handleProcessingError(c, err)
		return
	}

	result, err := h.service.ProcessAll(c.Request.Context(), payload)
	if err != nil {
		handleProcessingError(c, err)
		return
	}

	c.JSON(http.StatusOK, processAudioResponse{Success: true, MeetingNotes: result})
}

func (h *AudioHandler) processAudioSingle(c *gin.Context) {
	if err := parseUpload(c, h.maxUploadBytes); err != nil {
		handleProcessingError(c, err)
		return
	}
	if !hasAudioField(c) {
		handleProcessingError(c, model.NewValidationError(model.MessageNoAudioFile))
		return
	}

	mode, ok := c.GetPostForm("type")
	if !ok {
		handleProcessingError(c, model.NewValidationError(model.MessageNoProcessingType))
		return
	}

	payload, err := readAudio(c)
	if err != nil {
		handleProcessingError(c, err)
		return
	}

	result, err := h.service.ProcessSingle(c.Request.Context(), payload, model.ProcessingRequest{
		Mode:         model.ProcessingMode(mode),
		CustomPrompt: c.PostForm("customPrompt"),
	})
	if err != nil {
		handleProcessingError(c, err)
		return
	}

	c.JSON(http.StatusOK, processAudioSingleResponse{Success: true, Result: result})
}

// handleProcessingError maps validation errors to 400 and everything else to
// 500 with the upstream message and a stack trace in the server log.
func handleProcessingError(c *gin.Context, err error) {
	if errors.Is(err, errUploadTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": model.MessageFileTooLarge})
		return
	}

	if model.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": model.MessageOf(err)})
		return
	}

	log := logging.NewLogger(c.Request.Context())
	log.Errorf("Error: %v", err)
	utils.PrintStack("process audio", log)
	c.JSON(http.StatusInternalServerError, gin.H{"error": model.MessageOf(err)})
}
