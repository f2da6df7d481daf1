package gemini

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/model"
	"github.com/stretchr/testify/suite"
)

const generateResponseBody = `{
  "candidates": [
    {
      "content": {"role": "model", "parts": [{"text": "  Alice will send the deck by Friday.  "}]},
      "finishReason": "STOP"
    }
  ],
  "usageMetadata": {"promptTokenCount": 120, "candidatesTokenCount": 9, "totalTokenCount": 129},
  "responseId": "resp-1"
}`

type AudioContentGeneratorSuite struct {
	suite.Suite
	server   *httptest.Server
	mu       sync.Mutex
	status   int
	response string
	bodies   []string
	paths    []string
}

func TestAudioContentGeneratorSuite(t *testing.T) {
	suite.Run(t, new(AudioContentGeneratorSuite))
}

func (s *AudioContentGeneratorSuite) SetupTest() {
	s.status = http.StatusOK
	s.response = generateResponseBody
	s.bodies = nil
	s.paths = nil
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.bodies = append(s.bodies, string(body))
		s.paths = append(s.paths, r.URL.Path)
		status, response := s.status, s.response
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
}

func (s *AudioContentGeneratorSuite) TearDownTest() {
	s.server.Close()
}

func (s *AudioContentGeneratorSuite) newGenerator(opts ...model.GeneratorOption) *AudioContentGenerator {
	opts = append([]model.GeneratorOption{
		model.WithURL(s.server.URL),
		model.WithAuthToken("test-key"),
	}, opts...)
	g, err := NewAudioContentGenerator(context.Background(), opts...)
	s.Require().NoError(err)
	return g
}

func (s *AudioContentGeneratorSuite) TestGenerateInlinesAudioBytes() {
	g := s.newGenerator()
	audioBytes := []byte("RIFF....WAVEfmt ")

	text, meta, err := g.Generate(context.Background(), "Please transcribe this meeting audio.", model.AudioInput{
		FileName: "standup.wav",
		MIMEType: "audio/wav",
		Data:     audioBytes,
	})
	s.Require().NoError(err)
	s.Equal("  Alice will send the deck by Friday.  ", text)

	s.Require().Len(s.bodies, 1)
	s.Contains(s.paths[0], "models/gemini-2.5-flash:generateContent")
	s.Contains(s.bodies[0], "Please transcribe this meeting audio.")
	s.Contains(s.bodies[0], "audio/wav")
	s.Contains(s.bodies[0], base64.StdEncoding.EncodeToString(audioBytes))

	s.Equal(providerName, meta[model.MetadataKeyProvider])
	s.Equal("gemini-2.5-flash", meta[model.MetadataKeyModel])
	s.Equal("120", meta[model.MetadataKeyInputTokens])
	s.Equal("9", meta[model.MetadataKeyOutputTokens])
	s.Equal("129", meta[model.MetadataKeyTotalTokens])
	s.Equal("resp-1", meta[model.MetadataKeyResponseID])
	s.Equal("STOP", meta[model.MetadataKeyResponseStatus])
	s.NotEmpty(meta[model.MetadataKeyLatencyMs])
}

func (s *AudioContentGeneratorSuite) TestGenerateReferencesUploadedAudio() {
	g := s.newGenerator(model.WithModel("gemini-2.5-pro"))

	_, meta, err := g.Generate(context.Background(), "Summarize.", model.AudioInput{
		FileName: "weekly.m4a",
		MIMEType: "audio/mp4",
		URI:      "https://files.example/v1beta/files/abc",
	})
	s.Require().NoError(err)
	s.Equal("gemini-2.5-pro", meta[model.MetadataKeyModel])

	s.Require().Len(s.bodies, 1)
	s.Contains(s.paths[0], "models/gemini-2.5-pro:generateContent")
	s.Contains(s.bodies[0], "https://files.example/v1beta/files/abc")
	s.Contains(s.bodies[0], "fileUri")
}

func (s *AudioContentGeneratorSuite) TestGenerateUpstreamErrorPropagates() {
	s.status = http.StatusBadRequest
	s.response = `{"error": {"code": 400, "message": "API key not valid. Please pass a valid API key.", "status": "INVALID_ARGUMENT"}}`
	g := s.newGenerator()

	_, _, err := g.Generate(context.Background(), "Summarize.", model.AudioInput{FileName: "a.mp3", Data: []byte{1, 2, 3}})
	s.Require().Error(err)
	s.Contains(err.Error(), "API key not valid")
}

func (s *AudioContentGeneratorSuite) TestGenerateEmptyOutputIsError() {
	s.response = `{"candidates": [{"content": {"role": "model", "parts": [{"text": "   "}]}}]}`
	g := s.newGenerator()

	_, _, err := g.Generate(context.Background(), "Summarize.", model.AudioInput{FileName: "a.mp3", Data: []byte{1}})
	s.Require().Error(err)
	s.Contains(err.Error(), "response output is empty")
}

func (s *AudioContentGeneratorSuite) TestBuildAudioContentsResolvesMissingMIMEType() {
	contents, err := buildAudioContents("Transcribe.", model.AudioInput{FileName: "call.M4A", Data: []byte{1}})
	s.Require().NoError(err)
	s.Require().Len(contents, 1)
	s.Require().Len(contents[0].Parts, 2)
	s.Equal("Transcribe.", contents[0].Parts[0].Text)
	s.Require().NotNil(contents[0].Parts[1].InlineData)
	s.Equal("audio/mp4", contents[0].Parts[1].InlineData.MIMEType)
}

func (s *AudioContentGeneratorSuite) TestBuildAudioContentsRejectsEmptyInput() {
	_, err := buildAudioContents("  ", model.AudioInput{Data: []byte{1}})
	s.Error(err)

	_, err = buildAudioContents("Transcribe.", model.AudioInput{FileName: "a.wav"})
	s.Error(err)
}

func (s *AudioContentGeneratorSuite) TestResolveGenerationModelName() {
	s.Equal(defaultGenerationModelName, resolveGenerationModelName(model.GeneratorConfig{}))
	blank := "  "
	s.Equal(defaultGenerationModelName, resolveGenerationModelName(model.GeneratorConfig{Model: &blank}))
	name := "gemini-2.5-pro"
	s.Equal(name, resolveGenerationModelName(model.GeneratorConfig{Model: &name}))
}

func (s *AudioContentGeneratorSuite) TestBuildGenerateContentConfigMapsOptions() {
	cfg := model.ResolveGeneratorOpts(model.WithTemperature(0.2), model.WithMaxTokens(512))
	config := buildGenerateContentConfig(cfg)

	s.Require().NotNil(config.Temperature)
	s.InDelta(0.2, float64(*config.Temperature), 0.0001)
	s.Equal(int32(512), config.MaxOutputTokens)
}
