package gemini

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/logging"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/model"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/utils"
	"google.golang.org/genai"
)

// uploadPollInterval is how often a processing upload is re-read.
var uploadPollInterval = 2 * time.Second

// Upload pushes a local recording through the Files API and blocks until the
// provider marks it active.
func (g *AudioContentGenerator) Upload(ctx context.Context, filePath string, mimeType string) (model.UploadedAudio, error) {
	log := logging.NewLogger(ctx)
	if strings.TrimSpace(filePath) == "" {
		return model.UploadedAudio{}, utils.WrapIfNotNil(errors.New("file path is required"))
	}

	file, err := g.client.Files.UploadFromPath(ctx, filePath, &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: filepath.Base(filePath),
	})
	if err != nil {
		log.Errorf("error: %v", err)
		return model.UploadedAudio{}, utils.WrapIfNotNil(err)
	}
	log.Infof("audio_upload name=%q state=%q", file.Name, file.State)

	file, err = g.waitForActive(ctx, file)
	if err != nil {
		log.Errorf("error: %v", err)
		return model.UploadedAudio{}, utils.WrapIfNotNil(err)
	}

	uploadedMIME := file.MIMEType
	if uploadedMIME == "" {
		uploadedMIME = mimeType
	}
	return model.UploadedAudio{
		Name:     file.Name,
		URI:      file.URI,
		MIMEType: uploadedMIME,
	}, nil
}

func (g *AudioContentGenerator) Delete(ctx context.Context, uploaded model.UploadedAudio) error {
	if strings.TrimSpace(uploaded.Name) == "" {
		return nil
	}
	_, err := g.client.Files.Delete(ctx, uploaded.Name, nil)
	return utils.WrapIfNotNil(err)
}

func (g *AudioContentGenerator) waitForActive(ctx context.Context, file *genai.File) (*genai.File, error) {
	for file.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(uploadPollInterval):
		}

		refreshed, err := g.client.Files.Get(ctx, file.Name, nil)
		if err != nil {
			return nil, err
		}
		file = refreshed
	}

	if file.State == genai.FileStateFailed {
		return nil, errors.New("uploaded audio failed processing: " + file.Name)
	}
	return file, nil
}
