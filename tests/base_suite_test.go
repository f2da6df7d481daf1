package tests

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/model"
)

const defaultFixtureDir = "data"

// MeetingIntegrationSuite is embedded by suites that call a real provider.
// Credentials come from SETTINGS_FILE, the repo .env or $HOME/.env, in that
// order; recordings come from MEETING_FIXTURE_DIR (default tests/data).
type MeetingIntegrationSuite struct {
	suite.Suite
}

func (s *MeetingIntegrationSuite) SetupSuite() {
	settingsFromEnv := strings.TrimSpace(os.Getenv("SETTINGS_FILE"))
	candidates := []string{settingsFromEnv}
	if settingsFromEnv == "" {
		candidates = []string{filepath.Join("..", ".env")}
		if homeDir, err := os.UserHomeDir(); err == nil {
			candidates = append(candidates, filepath.Join(homeDir, ".env"))
		}
	}

	for _, candidate := range candidates {
		_, err := os.Stat(candidate)
		if errors.Is(err, os.ErrNotExist) && settingsFromEnv == "" {
			continue
		}
		require.NoError(s.T(), err)
		require.NoError(s.T(), godotenv.Overload(candidate))
		s.T().Logf("loaded settings from %s", candidate)
		return
	}
}

// credential returns the first non-empty variable in keys or skips the suite.
func (s *MeetingIntegrationSuite) credential(keys ...string) string {
	if value := firstEnv(keys...); value != "" {
		return value
	}
	s.T().Skipf("%s is not set; skipping meeting integration test", strings.Join(keys, " / "))
	return ""
}

// meetingFixture reads a recording from the fixture directory or skips the
// suite. See tests/data/README.md for what the recordings should contain.
func (s *MeetingIntegrationSuite) meetingFixture(name string) model.AudioPayload {
	dir := firstEnv("MEETING_FIXTURE_DIR")
	if dir == "" {
		dir = defaultFixtureDir
	}
	path := filepath.Join(dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		s.T().Skipf("%s is not accessible (%v); see tests/data/README.md", path, err)
	}
	return model.AudioPayload{FileName: filepath.Base(path), Data: data}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}
