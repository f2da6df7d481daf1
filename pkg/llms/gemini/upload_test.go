package gemini

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/model"
	"github.com/stretchr/testify/suite"
	"google.golang.org/genai"
)

const uploadedFileURI = "https://generativelanguage.googleapis.com/v1beta/files/abc123"

// fileAPIRequest is one call the fake Files API received.
type fileAPIRequest struct {
	method  string
	path    string
	command string
	mime    string
}

type AudioUploadSuite struct {
	suite.Suite
	server   *httptest.Server
	mu       sync.Mutex
	requests []fileAPIRequest

	// uploadState is the state returned when the upload is finalized;
	// getStates are returned by successive files/{name} reads.
	uploadState string
	getStates   []string

	previousInterval time.Duration
}

func TestAudioUploadSuite(t *testing.T) {
	suite.Run(t, new(AudioUploadSuite))
}

func (s *AudioUploadSuite) SetupTest() {
	s.previousInterval = uploadPollInterval
	uploadPollInterval = time.Millisecond

	s.requests = nil
	s.uploadState = "ACTIVE"
	s.getStates = nil
	s.server = httptest.NewServer(http.HandlerFunc(s.serveFilesAPI))
}

func (s *AudioUploadSuite) TearDownTest() {
	s.server.Close()
	uploadPollInterval = s.previousInterval
}

func (s *AudioUploadSuite) serveFilesAPI(w http.ResponseWriter, r *http.Request) {
	_, _ = io.Copy(io.Discard, r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, fileAPIRequest{
		method:  r.Method,
		path:    r.URL.Path,
		command: r.Header.Get("X-Goog-Upload-Command"),
		mime:    r.Header.Get("X-Goog-Upload-Header-Content-Type"),
	})
	state := ""
	if r.Method == http.MethodGet && len(s.getStates) > 0 {
		state, s.getStates = s.getStates[0], s.getStates[1:]
	}
	uploadState := s.uploadState
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/upload/v1beta/files"):
		w.Header().Set("X-Goog-Upload-URL", s.server.URL+"/upload-session/abc123")
		_, _ = io.WriteString(w, `{}`)
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/upload-session/"):
		w.Header().Set("X-Goog-Upload-Status", "final")
		_, _ = io.WriteString(w, `{"file": `+fileJSON(uploadState)+`}`)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/files/abc123"):
		_, _ = io.WriteString(w, fileJSON(state))
	case r.Method == http.MethodDelete && strings.HasSuffix(r.URL.Path, "/files/abc123"):
		_, _ = io.WriteString(w, `{}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error": {"code": 404, "message": "not found", "status": "NOT_FOUND"}}`)
	}
}

func fileJSON(state string) string {
	return `{"name": "files/abc123", "mimeType": "audio/mp4", "uri": "` + uploadedFileURI + `", "state": "` + state + `"}`
}

func (s *AudioUploadSuite) newGenerator() *AudioContentGenerator {
	g, err := NewAudioContentGenerator(context.Background(),
		model.WithURL(s.server.URL),
		model.WithAuthToken("test-key"),
	)
	s.Require().NoError(err)
	return g
}

func (s *AudioUploadSuite) writeRecording() string {
	path := filepath.Join(s.T().TempDir(), "weekly.m4a")
	s.Require().NoError(os.WriteFile(path, []byte("....ftypM4A meeting"), 0o600))
	return path
}

func (s *AudioUploadSuite) requestsWith(method string) []fileAPIRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []fileAPIRequest
	for _, req := range s.requests {
		if req.method == method {
			out = append(out, req)
		}
	}
	return out
}

func (s *AudioUploadSuite) TestUploadPollsUntilActive() {
	s.uploadState = "PROCESSING"
	s.getStates = []string{"PROCESSING", "ACTIVE"}

	uploaded, err := s.newGenerator().Upload(context.Background(), s.writeRecording(), "audio/mp4")
	s.Require().NoError(err)
	s.Equal(model.UploadedAudio{Name: "files/abc123", URI: uploadedFileURI, MIMEType: "audio/mp4"}, uploaded)

	posts := s.requestsWith(http.MethodPost)
	s.Require().Len(posts, 2)
	s.Equal("start", posts[0].command)
	s.Equal("audio/mp4", posts[0].mime)
	s.Equal("upload, finalize", posts[1].command)

	gets := s.requestsWith(http.MethodGet)
	s.Require().Len(gets, 2)
	s.True(strings.HasSuffix(gets[0].path, "/files/abc123"), gets[0].path)
}

func (s *AudioUploadSuite) TestUploadAlreadyActiveSkipsPolling() {
	_, err := s.newGenerator().Upload(context.Background(), s.writeRecording(), "audio/mp4")
	s.Require().NoError(err)
	s.Empty(s.requestsWith(http.MethodGet))
}

func (s *AudioUploadSuite) TestUploadFailedProcessingIsError() {
	s.uploadState = "PROCESSING"
	s.getStates = []string{"FAILED"}

	_, err := s.newGenerator().Upload(context.Background(), s.writeRecording(), "audio/mp4")
	s.Require().Error(err)
	s.Contains(err.Error(), "uploaded audio failed processing: files/abc123")
}

func (s *AudioUploadSuite) TestUploadRequiresPath() {
	_, err := s.newGenerator().Upload(context.Background(), " ", "audio/mp4")
	s.Require().Error(err)
	s.Contains(err.Error(), "file path is required")
	s.Empty(s.requests)
}

func (s *AudioUploadSuite) TestWaitForActiveStopsOnCancel() {
	uploadPollInterval = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.newGenerator().waitForActive(ctx, &genai.File{Name: "files/abc123", State: genai.FileStateProcessing})
	s.ErrorIs(err, context.Canceled)
	s.Empty(s.requests)
}

func (s *AudioUploadSuite) TestDeleteRemovesUploadedFile() {
	err := s.newGenerator().Delete(context.Background(), model.UploadedAudio{Name: "files/abc123", URI: uploadedFileURI})
	s.Require().NoError(err)

	deletes := s.requestsWith(http.MethodDelete)
	s.Require().Len(deletes, 1)
	s.True(strings.HasSuffix(deletes[0].path, "/v1beta/files/abc123"), deletes[0].path)
}

func (s *AudioUploadSuite) TestDeleteWithoutNameIsNoop() {
	s.NoError(s.newGenerator().Delete(context.Background(), model.UploadedAudio{}))
	s.Empty(s.requests)
}
