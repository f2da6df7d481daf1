package notes

import (
	"context"
	"os"
	"strings"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/audio"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/logging"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/model"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/utils"
)

// ProcessInteractive backs the interactive page. The payload is spooled to a
// temporary file, uploaded when the provider supports handles, and run
// through the detailed instructions. The temporary file and the upload are
// released on every exit path.
func (s *Service) ProcessInteractive(ctx context.Context, payload model.AudioPayload, apiKey string) (model.MeetingNotes, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		apiKey = s.opts.APIKey
	}
	if strings.TrimSpace(apiKey) == "" {
		return model.MeetingNotes{}, model.NewValidationError(model.MessageMissingAPIKey)
	}

	payload, err := prepare(payload)
	if err != nil {
		return model.MeetingNotes{}, err
	}
	if !audio.IsInteractiveFormat(payload.FileName) {
		return model.MeetingNotes{}, model.NewValidationError(model.MessageUnsupportedFormat)
	}

	log := logging.NewLogger(ctx)
	tmpPath, err := writeTempFile(s.opts.TempDir, payload)
	if err != nil {
		return model.MeetingNotes{}, upstreamError(err)
	}
	defer removeTempFile(ctx, tmpPath)

	log.Infof("File uploaded: %s (%.2f MB)", payload.FileName, float64(payload.Size())/1024/1024)

	generator, err := s.generator(ctx, apiKey, s.opts.InteractiveModel)
	if err != nil {
		return model.MeetingNotes{}, err
	}

	input, release, err := stageAudio(ctx, generator, tmpPath, payload)
	if err != nil {
		return model.MeetingNotes{}, upstreamError(err)
	}
	defer release()

	return s.runMeetingModes(ctx, generator, s.opts.InteractivePrompts, input)
}

// stageAudio uploads the temp file when the generator accepts handles and
// otherwise inlines the spooled bytes.
func stageAudio(
	ctx context.Context,
	generator model.AudioContentGenerator,
	tmpPath string,
	payload model.AudioPayload,
) (model.AudioInput, func(), error) {
	uploader, ok := generator.(model.AudioUploader)
	if !ok {
		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return model.AudioInput{}, func() {}, utils.WrapIfNotNil(err)
		}
		input := payload.Input()
		input.Data = data
		return input, func() {}, nil
	}

	uploaded, err := uploader.Upload(ctx, tmpPath, payload.MIMEType)
	if err != nil {
		return model.AudioInput{}, func() {}, err
	}

	release := func() {
		// The request context may already be cancelled at this point.
		if err := uploader.Delete(context.WithoutCancel(ctx), uploaded); err != nil {
			logging.NewLogger(ctx).Warnf("Failed to delete uploaded audio %s: %v", uploaded.Name, err)
		}
	}
	return uploaded.Input(payload.FileName), release, nil
}
