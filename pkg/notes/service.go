// Package notes runs the meeting-notes workflows: it resolves instructions,
// calls the configured provider once per requested output and classifies
// failures as validation or upstream errors.
package notes

import (
	"context"
	"errors"
	"strings"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/audio"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/logging"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/model"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/prompts"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/utils"
)

type Options struct {
	// NewGenerator builds a provider client. It is called once per request so
	// a credential supplied with the request can replace the configured one.
	NewGenerator model.NewAudioContentGeneratorFunc

	APIKey           string
	BaseURL          string
	Model            string
	InteractiveModel string
	Temperature      *float64
	MaxTokens        *int

	WebPrompts         prompts.Set
	InteractivePrompts prompts.Set

	// TempDir holds interactive uploads while they are processed. Empty means
	// the OS default.
	TempDir string
}

type Service struct {
	opts Options
}

func NewService(opts Options) (*Service, error) {
	if opts.NewGenerator == nil {
		return nil, utils.WrapIfNotNil(errors.New("generator factory is required"))
	}
	if opts.WebPrompts == nil {
		opts.WebPrompts = prompts.Web
	}
	if opts.InteractivePrompts == nil {
		opts.InteractivePrompts = prompts.Interactive
	}
	if strings.TrimSpace(opts.InteractiveModel) == "" {
		opts.InteractiveModel = opts.Model
	}
	return &Service{opts: opts}, nil
}

// HasCredential reports whether a provider credential was configured at startup.
func (s *Service) HasCredential() bool {
	return strings.TrimSpace(s.opts.APIKey) != ""
}

// ProcessAll produces transcription, summary and action items with three
// sequential calls. Any failure aborts the request and no partial notes are
// returned.
func (s *Service) ProcessAll(ctx context.Context, payload model.AudioPayload) (model.MeetingNotes, error) {
	payload, err := prepare(payload)
	if err != nil {
		return model.MeetingNotes{}, err
	}

	log := logging.NewLogger(ctx)
	log.Infof("Processing audio file: %s, type: %s, size: %d bytes", payload.FileName, payload.MIMEType, payload.Size())

	generator, err := s.generator(ctx, s.opts.APIKey, s.opts.Model)
	if err != nil {
		return model.MeetingNotes{}, err
	}
	return s.runMeetingModes(ctx, generator, s.opts.WebPrompts, payload.Input())
}

// ProcessSingle runs one instruction selected by req against the payload.
func (s *Service) ProcessSingle(ctx context.Context, payload model.AudioPayload, req model.ProcessingRequest) (string, error) {
	payload, err := prepare(payload)
	if err != nil {
		return "", err
	}
	instruction, err := s.opts.WebPrompts.Resolve(req)
	if err != nil {
		return "", err
	}

	log := logging.NewLogger(ctx)
	log.Infof("Processing %s for audio file: %s, type: %s", req.Mode, payload.FileName, payload.MIMEType)

	generator, err := s.generator(ctx, s.opts.APIKey, s.opts.Model)
	if err != nil {
		return "", err
	}

	log.Infof("Generating %s...", req.Mode)
	return generate(ctx, generator, instruction, payload.Input())
}

func (s *Service) runMeetingModes(
	ctx context.Context,
	generator model.AudioContentGenerator,
	set prompts.Set,
	input model.AudioInput,
) (model.MeetingNotes, error) {
	log := logging.NewLogger(ctx)
	var notes model.MeetingNotes
	for _, mode := range model.MeetingModes {
		instruction, ok := set.Lookup(mode)
		if !ok {
			return model.MeetingNotes{}, model.NewValidationError(model.MessageInvalidProcessingType)
		}

		log.Infof("Generating %s...", mode)
		text, err := generate(ctx, generator, instruction, input)
		if err != nil {
			return model.MeetingNotes{}, err
		}
		notes.Set(mode, text)
	}
	return notes, nil
}

func (s *Service) generator(ctx context.Context, apiKey string, modelName string) (model.AudioContentGenerator, error) {
	opts := []model.GeneratorOption{model.WithAuthToken(apiKey)}
	if s.opts.BaseURL != "" {
		opts = append(opts, model.WithURL(s.opts.BaseURL))
	}
	if modelName != "" {
		opts = append(opts, model.WithModel(modelName))
	}
	if s.opts.Temperature != nil {
		opts = append(opts, model.WithTemperature(*s.opts.Temperature))
	}
	if s.opts.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*s.opts.MaxTokens))
	}

	generator, err := s.opts.NewGenerator(ctx, opts...)
	if err != nil {
		return nil, upstreamError(err)
	}
	return generator, nil
}

func generate(ctx context.Context, generator model.AudioContentGenerator, instruction string, input model.AudioInput) (string, error) {
	text, meta, err := generator.Generate(ctx, instruction, input)
	if err != nil {
		return "", upstreamError(err)
	}
	logging.NewLogger(ctx).Debugf("generation_metadata %v", meta)
	return text, nil
}

func prepare(payload model.AudioPayload) (model.AudioPayload, error) {
	if err := payload.Validate(); err != nil {
		return payload, err
	}
	if payload.MIMEType == "" {
		payload.MIMEType = audio.ResolveMIMEType(payload.FileName)
	}
	return payload, nil
}

// upstreamError keeps validation errors as they are and turns everything
// else into an upstream error carrying the provider's own message.
func upstreamError(err error) error {
	if err == nil {
		return nil
	}
	if model.IsValidation(err) {
		return err
	}
	message := err.Error()
	if root := utils.RootCause(err); root != nil {
		message = root.Error()
	}
	return model.NewUpstreamError(message, err)
}
