package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/audio"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/logging"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/model"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/utils"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/packages/param"
)

// AudioContentGenerator sends the recording as an input_audio part of a chat
// completion. The chat API accepts wav and mp3 only and has no file handles.
type AudioContentGenerator struct {
	client *client
	cfg    model.GeneratorConfig
}

var _ model.AudioContentGenerator = (*AudioContentGenerator)(nil)

func NewAudioContentGenerator(opts ...model.GeneratorOption) *AudioContentGenerator {
	cfg := model.ResolveGeneratorOpts(opts...)
	return &AudioContentGenerator{
		client: newClient(cfg),
		cfg:    cfg,
	}
}

// NewGenerator adapts NewAudioContentGenerator to model.NewAudioContentGeneratorFunc.
func NewGenerator(_ context.Context, opts ...model.GeneratorOption) (model.AudioContentGenerator, error) {
	return NewAudioContentGenerator(opts...), nil
}

func (g *AudioContentGenerator) Generate(
	ctx context.Context,
	instruction string,
	input model.AudioInput,
) (string, model.GenerationMetadata, error) {
	start := time.Now()
	modelName := resolveModelName(g.cfg)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	log := logging.NewLogger(ctx)
	params, err := buildChatParams(g.cfg, modelName, instruction, input)
	if err != nil {
		log.Errorf("error: %v", err)
		return "", meta, utils.WrapIfNotNil(err)
	}

	log.Infof(
		"audio_generation_request model=%q file=%q mime=%q bytes=%d",
		modelName,
		input.FileName,
		input.MIMEType,
		len(input.Data),
	)

	completion, err := g.client.apiClient.Chat.Completions.New(ctx, params)
	if err != nil {
		log.Errorf("error: %v", err)
		return "", meta, utils.WrapIfNotNil(err)
	}
	if completion == nil || len(completion.Choices) == 0 {
		err = errors.New("chat completion returned no choices")
		log.Errorf("error: %v", err)
		return "", meta, utils.WrapIfNotNil(err)
	}

	applyCompletionMetadata(meta, completion)
	text := completion.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		err = errors.New("response output is empty")
		log.Errorf("error: %v", err)
		return "", meta, utils.WrapIfNotNil(err)
	}
	return text, meta, nil
}

func buildChatParams(
	cfg model.GeneratorConfig,
	modelName string,
	instruction string,
	input model.AudioInput,
) (openai.ChatCompletionNewParams, error) {
	if strings.TrimSpace(instruction) == "" {
		return openai.ChatCompletionNewParams{}, errors.New("instruction is required")
	}
	if input.IsUploaded() {
		return openai.ChatCompletionNewParams{}, errors.New("openai chat completions do not accept uploaded audio handles")
	}
	if len(input.Data) == 0 {
		return openai.ChatCompletionNewParams{}, errors.New("audio input is empty")
	}

	format, err := resolveInputAudioFormat(input)
	if err != nil {
		return openai.ChatCompletionNewParams{}, err
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(instruction),
				openai.InputAudioContentPart(openai.ChatCompletionContentPartInputAudioInputAudioParam{
					Data:   base64.StdEncoding.EncodeToString(input.Data),
					Format: format,
				}),
			}),
		},
		Modalities: []string{"text"},
	}
	if cfg.Temperature != nil {
		params.Temperature = param.NewOpt(*cfg.Temperature)
	}
	if cfg.MaxTokens != nil {
		params.MaxCompletionTokens = param.NewOpt(int64(*cfg.MaxTokens))
	}
	return params, nil
}

func resolveInputAudioFormat(input model.AudioInput) (string, error) {
	mimeType := strings.TrimSpace(input.MIMEType)
	if mimeType == "" {
		mimeType = audio.ResolveMIMEType(input.FileName)
	}

	switch mimeType {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return "wav", nil
	case "audio/mp3", "audio/mpeg":
		return "mp3", nil
	}
	return "", errors.New("unsupported audio format for openai: " + mimeType)
}

func applyCompletionMetadata(meta model.GenerationMetadata, completion *openai.ChatCompletion) {
	if meta == nil || completion == nil {
		return
	}

	meta[model.MetadataKeyInputTokens] = strconv.FormatInt(completion.Usage.PromptTokens, 10)
	meta[model.MetadataKeyOutputTokens] = strconv.FormatInt(completion.Usage.CompletionTokens, 10)
	meta[model.MetadataKeyTotalTokens] = strconv.FormatInt(completion.Usage.TotalTokens, 10)
	if strings.TrimSpace(completion.ID) != "" {
		meta[model.MetadataKeyResponseID] = completion.ID
	}
	if len(completion.Choices) > 0 {
		meta[model.MetadataKeyResponseStatus] = string(completion.Choices[0].FinishReason)
	}
}
