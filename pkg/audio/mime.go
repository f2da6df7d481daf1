// Package audio maps uploaded file names to the audio MIME types the model
// providers accept.
package audio

import (
	"path/filepath"
	"strings"
)

const DefaultMIMEType = "audio/wav"

// MIMETypes is keyed by lower-case extension including the dot.
var MIMETypes = map[string]string{
	".mp3":  "audio/mp3",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".aac":  "audio/aac",
	".webm": "audio/webm",
}

// InteractiveExtensions are the formats offered by the interactive file picker.
var InteractiveExtensions = []string{"mp3", "wav", "m4a", "flac", "aac"}

// WebExtensions are the formats the browser front-end accepts. webm is what
// its in-page recorder produces.
var WebExtensions = []string{"mp3", "wav", "m4a", "flac", "aac", "webm"}

// ResolveMIMEType never fails: unknown or missing extensions resolve to
// DefaultMIMEType.
func ResolveMIMEType(fileName string) string {
	if mimeType, ok := MIMETypes[Extension(fileName)]; ok {
		return mimeType
	}
	return DefaultMIMEType
}

// Extension returns the lower-cased extension of fileName, dot included.
func Extension(fileName string) string {
	return strings.ToLower(filepath.Ext(strings.TrimSpace(fileName)))
}

func IsInteractiveFormat(fileName string) bool {
	ext := strings.TrimPrefix(Extension(fileName), ".")
	for _, allowed := range InteractiveExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// AcceptAttribute renders extensions for an HTML file input.
func AcceptAttribute(extensions []string) string {
	parts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		parts = append(parts, "."+ext)
	}
	return strings.Join(parts, ",")
}
