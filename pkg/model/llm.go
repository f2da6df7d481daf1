package model

import "context"

// AudioContentGenerator is implemented by every provider that can answer an
// instruction about an audio recording.
type AudioContentGenerator interface {
	Generate(ctx context.Context, instruction string, audio AudioInput) (string, GenerationMetadata, error)
}

// AudioUploader is implemented by providers that accept pre-uploaded audio and
// can be referenced by handle instead of inlined bytes.
type AudioUploader interface {
	Upload(ctx context.Context, filePath string, mimeType string) (UploadedAudio, error)
	Delete(ctx context.Context, uploaded UploadedAudio) error
}

// NewAudioContentGeneratorFunc is the factory each provider package exposes.
type NewAudioContentGeneratorFunc func(ctx context.Context, opts ...GeneratorOption) (AudioContentGenerator, error)

type GenerationMetadata map[string]string

const (
	MetadataKeyProvider       = "provider"
	MetadataKeyModel          = "model"
	MetadataKeyLatencyMs      = "latency_ms"
	MetadataKeyInputTokens    = "input_tokens"
	MetadataKeyOutputTokens   = "output_tokens"
	MetadataKeyTotalTokens    = "total_tokens"
	MetadataKeyResponseID     = "response_id"
	MetadataKeyResponseStatus = "response_status"
)

type GeneratorOption interface {
	apply(*GeneratorConfig)
}

type generatorOptionFunc func(*GeneratorConfig)

func (f generatorOptionFunc) apply(cfg *GeneratorConfig) {
	f(cfg)
}

type GeneratorConfig struct {
	URL         string
	AuthToken   string
	Temperature *float64
	MaxTokens   *int
	Model       *string
}

func ResolveGeneratorOpts(opts ...GeneratorOption) GeneratorConfig {
	cfg := GeneratorConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}
	return cfg
}

func WithURL(value string) GeneratorOption {
	return generatorOptionFunc(func(cfg *GeneratorConfig) {
		cfg.URL = value
	})
}

func WithAuthToken(value string) GeneratorOption {
	return generatorOptionFunc(func(cfg *GeneratorConfig) {
		cfg.AuthToken = value
	})
}

func WithTemperature(value float64) GeneratorOption {
	return generatorOptionFunc(func(cfg *GeneratorConfig) {
		cfg.Temperature = &value
	})
}

func WithMaxTokens(value int) GeneratorOption {
	return generatorOptionFunc(func(cfg *GeneratorConfig) {
		cfg.MaxTokens = &value
	})
}

func WithModel(value string) GeneratorOption {
	return generatorOptionFunc(func(cfg *GeneratorConfig) {
		cfg.Model = &value
	})
}
