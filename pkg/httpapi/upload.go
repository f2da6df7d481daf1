package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/model"
)

// multipartMemory is how much of a form is buffered in memory before the
// standard library spills file parts to disk.
const multipartMemory = 32 << 20

var errUploadTooLarge = errors.New(model.MessageFileTooLarge)

// parseUpload enforces the upload limit and parses the multipart form.
func parseUpload(c *gin.Context, maxBytes int64) error {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	}
	err := c.Request.ParseMultipartForm(multipartMemory)
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errUploadTooLarge
	}
	return model.NewValidationError(model.MessageNoAudioFile)
}

// hasAudioField reports whether the form carries an audio field at all. A
// file input submitted without a selection arrives as a plain value.
func hasAudioField(c *gin.Context) bool {
	form := c.Request.MultipartForm
	if form == nil {
		return false
	}
	if len(form.File["audio"]) > 0 {
		return true
	}
	_, ok := form.Value["audio"]
	return ok
}

// readAudio reads the audio field fully into memory.
func readAudio(c *gin.Context) (model.AudioPayload, error) {
	if !hasAudioField(c) {
		return model.AudioPayload{}, model.NewValidationError(model.MessageNoAudioFile)
	}

	files := c.Request.MultipartForm.File["audio"]
	if len(files) == 0 || strings.TrimSpace(files[0].Filename) == "" {
		return model.AudioPayload{}, model.NewValidationError(model.MessageNoFileSelected)
	}

	header := files[0]
	file, err := header.Open()
	if err != nil {
		return model.AudioPayload{}, err
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return model.AudioPayload{}, err
	}

	return model.AudioPayload{
		FileName: header.Filename,
		Data:     data,
	}, nil
}
