package openai

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/model"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	providerName               = "openai"
	defaultGenerationModelName = "gpt-4o-audio-preview"
)

type client struct {
	apiClient openai.Client
}

func newClient(cfg model.GeneratorConfig) *client {
	requestOpts := make([]option.RequestOption, 0, 3)
	if cfg.URL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(cfg.URL))
	}

	token := strings.TrimSpace(cfg.AuthToken)
	if token == "" {
		token = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	if token != "" {
		requestOpts = append(requestOpts, option.WithAPIKey(token))
	}
	// Upstream failures surface directly to the caller.
	requestOpts = append(requestOpts, option.WithMaxRetries(0))

	return &client{apiClient: openai.NewClient(requestOpts...)}
}

func initMetadata(modelName string) model.GenerationMetadata {
	if strings.TrimSpace(modelName) == "" {
		modelName = "unknown"
	}

	return model.GenerationMetadata{
		model.MetadataKeyProvider: providerName,
		model.MetadataKeyModel:    modelName,
	}
}

func setLatencyMetadata(meta model.GenerationMetadata, start time.Time) {
	if meta == nil {
		return
	}
	meta[model.MetadataKeyLatencyMs] = strconv.FormatInt(time.Since(start).Milliseconds(), 10)
}

func resolveModelName(cfg model.GeneratorConfig) string {
	if cfg.Model != nil {
		name := strings.TrimSpace(*cfg.Model)
		if name != "" {
			return name
		}
	}
	return defaultGenerationModelName
}
