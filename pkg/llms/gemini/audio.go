package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/audio"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/logging"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/model"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/utils"
	"google.golang.org/genai"
)

// AudioContentGenerator answers instructions about a recording with a Gemini
// model. One client is reused for every call made through the generator.
type AudioContentGenerator struct {
	client *genai.Client
	cfg    model.GeneratorConfig
}

var (
	_ model.AudioContentGenerator = (*AudioContentGenerator)(nil)
	_ model.AudioUploader         = (*AudioContentGenerator)(nil)
)

func NewAudioContentGenerator(ctx context.Context, opts ...model.GeneratorOption) (*AudioContentGenerator, error) {
	cfg := model.ResolveGeneratorOpts(opts...)
	client, err := newAPIClient(ctx, cfg)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	return &AudioContentGenerator{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewGenerator adapts NewAudioContentGenerator to model.NewAudioContentGeneratorFunc.
func NewGenerator(ctx context.Context, opts ...model.GeneratorOption) (model.AudioContentGenerator, error) {
	g, err := NewAudioContentGenerator(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (g *AudioContentGenerator) Generate(
	ctx context.Context,
	instruction string,
	input model.AudioInput,
) (string, model.GenerationMetadata, error) {
	start := time.Now()
	modelName := resolveGenerationModelName(g.cfg)
	meta := initMetadata(modelName)
	defer setLatencyMetadata(meta, start)

	log := logging.NewLogger(ctx)
	contents, err := buildAudioContents(instruction, input)
	if err != nil {
		log.Errorf("error: %v", err)
		return "", meta, utils.WrapIfNotNil(err)
	}

	log.Infof(
		"audio_generation_request model=%q file=%q mime=%q bytes=%d uploaded=%t",
		modelName,
		input.FileName,
		input.MIMEType,
		len(input.Data),
		input.IsUploaded(),
	)

	response, err := g.client.Models.GenerateContent(ctx, modelName, contents, buildGenerateContentConfig(g.cfg))
	if err != nil {
		log.Errorf("error: %v", err)
		return "", meta, utils.WrapIfNotNil(err)
	}

	applyGenerateMetadata(meta, response)
	text := response.Text()
	if strings.TrimSpace(text) == "" {
		err = errors.New("response output is empty")
		log.Errorf("error: %v", err)
		return "", meta, utils.WrapIfNotNil(err)
	}
	return text, meta, nil
}

func buildAudioContents(instruction string, input model.AudioInput) ([]*genai.Content, error) {
	if strings.TrimSpace(instruction) == "" {
		return nil, errors.New("instruction is required")
	}

	mimeType := strings.TrimSpace(input.MIMEType)
	if mimeType == "" {
		mimeType = audio.ResolveMIMEType(input.FileName)
	}

	var audioPart *genai.Part
	switch {
	case input.IsUploaded():
		audioPart = genai.NewPartFromURI(input.URI, mimeType)
	case len(input.Data) > 0:
		audioPart = genai.NewPartFromBytes(input.Data, mimeType)
	default:
		return nil, errors.New("audio input is empty")
	}

	return []*genai.Content{
		genai.NewContentFromParts(
			[]*genai.Part{
				genai.NewPartFromText(instruction),
				audioPart,
			},
			genai.RoleUser,
		),
	}, nil
}
