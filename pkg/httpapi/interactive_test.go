package httpapi

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/model"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/prompts"
)

func (s *HTTPSuite) TestInteractiveFormRestrictsFormats() {
	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notes", nil))

	s.Equal(http.StatusOK, rec.Code)
	body := rec.Body.String()
	s.Contains(body, `accept=".mp3,.wav,.m4a,.flac,.aac"`)
	s.Contains(body, `type="password"`)
	s.NotContains(body, model.MessageMissingAPIKey)
}

func (s *HTTPSuite) TestInteractiveFormWarnsWithoutConfiguredKey() {
	s.apiKey = ""
	rec := httptest.NewRecorder()
	s.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notes", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), model.MessageMissingAPIKey)
}

func (s *HTTPSuite) TestInteractiveProcessRendersPanelsWithDownloads() {
	rec := s.post("/notes", map[string]string{"apiKey": ""}, s.audio("weekly.m4a"))
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	body := rec.Body.String()
	s.Contains(body, "File uploaded: weekly.m4a")
	s.Contains(body, "Meeting Summary")
	s.Contains(body, `download="transcription.txt"`)
	s.Contains(body, `download="summary.txt"`)
	s.Contains(body, `download="action_items.txt"`)
	s.Contains(body, "Processing complete!")

	summary := "generated: " + prompts.Interactive[model.ProcessingModeSummary]
	s.Contains(body, base64.StdEncoding.EncodeToString([]byte(summary)))
	s.Require().Len(s.generator.calls, 3)
	s.Equal(prompts.Interactive[model.ProcessingModeTranscription], s.generator.calls[0])
}

func (s *HTTPSuite) TestInteractiveProcessWithoutAnyKeyWarns() {
	s.apiKey = ""
	rec := s.post("/notes", map[string]string{"apiKey": " "}, s.audio("weekly.mp3"))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), model.MessageMissingAPIKey)
	s.Empty(s.generator.calls)
}

func (s *HTTPSuite) TestInteractiveProcessUnsupportedFormat() {
	rec := s.post("/notes", nil, s.audio("weekly.webm"))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), model.MessageUnsupportedFormat)
}

func (s *HTTPSuite) TestInteractiveProcessUpstreamErrorShowsHint() {
	s.generator.failAt = 2
	s.generator.err = errors.New("API key not valid")

	rec := s.post("/notes", map[string]string{"apiKey": "bad"}, s.audio("weekly.wav"))

	s.Equal(http.StatusInternalServerError, rec.Code)
	body := rec.Body.String()
	s.Contains(body, "Error processing audio: API key not valid")
	s.Contains(body, interactiveHint)
	s.NotContains(body, "Processing complete!")
}
