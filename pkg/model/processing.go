package model

type ProcessingMode string

const (
	ProcessingModeTranscription ProcessingMode = "transcription"
	ProcessingModeSummary       ProcessingMode = "summary"
	ProcessingModeActionItems   ProcessingMode = "actionItems"
	ProcessingModeCustom        ProcessingMode = "custom"
)

// MeetingModes are the three outputs produced by the combined workflow, in
// the order they are requested.
var MeetingModes = []ProcessingMode{
	ProcessingModeTranscription,
	ProcessingModeSummary,
	ProcessingModeActionItems,
}

func (m ProcessingMode) IsValid() bool {
	switch m {
	case ProcessingModeTranscription, ProcessingModeSummary, ProcessingModeActionItems, ProcessingModeCustom:
		return true
	}
	return false
}

// ProcessingRequest selects which instruction the single-output workflow uses.
type ProcessingRequest struct {
	Mode         ProcessingMode
	CustomPrompt string
}

// Validate checks the selected mode. An empty mode is not a known mode; the
// caller reports a field that was never sent as MessageNoProcessingType.
func (r ProcessingRequest) Validate() error {
	if r.Mode == ProcessingModeCustom {
		if r.CustomPrompt == "" {
			return NewValidationError(MessageCustomPromptRequired)
		}
		return nil
	}
	if !r.Mode.IsValid() {
		return NewValidationError(MessageInvalidProcessingType)
	}
	return nil
}

// MeetingNotes holds the three artifacts of the combined workflow.
type MeetingNotes struct {
	Transcription string `json:"transcription"`
	Summary       string `json:"summary"`
	ActionItems   string `json:"action_items"`
}

func (n *MeetingNotes) Set(mode ProcessingMode, text string) {
	switch mode {
	case ProcessingModeTranscription:
		n.Transcription = text
	case ProcessingModeSummary:
		n.Summary = text
	case ProcessingModeActionItems:
		n.ActionItems = text
	}
}
