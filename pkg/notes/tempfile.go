package notes

import (
	"context"
	"os"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/audio"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/logging"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/model"
	"github.com/Nephrolytics-ai/meeting-notes/pkg/utils"
)

// writeTempFile spools the payload to disk, keeping the original extension so
// providers that sniff file names see the right format.
func writeTempFile(dir string, payload model.AudioPayload) (string, error) {
	file, err := os.CreateTemp(dir, "meeting-*"+audio.Extension(payload.FileName))
	if err != nil {
		return "", utils.WrapIfNotNil(err)
	}

	if _, err := file.Write(payload.Data); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return "", utils.WrapIfNotNil(err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(file.Name())
		return "", utils.WrapIfNotNil(err)
	}
	return file.Name(), nil
}

// removeTempFile logs a warning when the file cannot be removed.
func removeTempFile(ctx context.Context, path string) {
	log := logging.NewLogger(ctx)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to cleanup temp file %s: %v", path, err)
		return
	}
	log.Debugf("Cleaned up temp file: %s", path)
}
