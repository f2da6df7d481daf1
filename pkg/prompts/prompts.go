// Package prompts holds the fixed instructions sent alongside the audio.
// They are plain data so deployments can override them from configuration.
package prompts

import (
	"fmt"
	"strings"

	"github.com/Nephrolytics-ai/meeting-notes/pkg/model"
)

const NoActionItemsPhrase = "No action items identified."

// Set maps each fixed processing mode to its instruction.
type Set map[model.ProcessingMode]string

// Web is used by the programmatic endpoints.
var Web = Set{
	model.ProcessingModeTranscription: "Please transcribe this meeting audio.",
	model.ProcessingModeSummary:       "Based on this meeting audio, provide a comprehensive summary:",
	model.ProcessingModeActionItems:   `Extract all action items from this meeting audio. If no action items are found, say "` + NoActionItemsPhrase + `"`,
}

// Interactive is used by the interactive page and asks for more structure.
var Interactive = Set{
	model.ProcessingModeTranscription: `Please transcribe this meeting audio accurately.
Include speaker labels if you can identify different speakers.
Format the transcription clearly with timestamps if possible.`,
	model.ProcessingModeSummary: `Based on this meeting audio, provide a comprehensive summary including:
1. Main topics discussed
2. Key decisions made
3. Important points raised
4. Next steps mentioned

Format the summary in a clear, structured way.`,
	model.ProcessingModeActionItems: `Extract all action items from this meeting audio.
For each action item, identify:
- What needs to be done
- Who is responsible (if mentioned)
- Deadline or timeframe (if mentioned)

Format as a clear, numbered list.
If no action items are found, say "` + NoActionItemsPhrase + `"`,
}

// Lookup returns the instruction for mode. Custom and unknown modes have no
// fixed instruction.
func (s Set) Lookup(mode model.ProcessingMode) (string, bool) {
	instruction, ok := s[mode]
	if !ok || strings.TrimSpace(instruction) == "" {
		return "", false
	}
	return instruction, true
}

// Resolve picks the instruction for a validated request.
func (s Set) Resolve(req model.ProcessingRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if req.Mode == model.ProcessingModeCustom {
		return req.CustomPrompt, nil
	}
	instruction, ok := s.Lookup(req.Mode)
	if !ok {
		return "", model.NewValidationError(model.MessageInvalidProcessingType)
	}
	return instruction, nil
}

// WithOverrides returns a copy of s where every non-empty override, keyed by
// mode name, replaces the default instruction.
func (s Set) WithOverrides(overrides map[string]string) (Set, error) {
	out := make(Set, len(s))
	for mode, instruction := range s {
		out[mode] = instruction
	}
	for key, instruction := range overrides {
		mode := model.ProcessingMode(strings.TrimSpace(key))
		if !mode.IsValid() || mode == model.ProcessingModeCustom {
			return nil, fmt.Errorf("unknown prompt override %q", key)
		}
		if strings.TrimSpace(instruction) == "" {
			continue
		}
		out[mode] = instruction
	}
	return out, nil
}
