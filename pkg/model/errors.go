package model

import "errors"

type ErrorKind string

const (
	// ErrorKindValidation covers client input problems. Reported as 400.
	ErrorKindValidation ErrorKind = "validation"
	// ErrorKindUpstream covers any failure talking to the model provider,
	// including credential and network errors. Reported as 500.
	ErrorKindUpstream ErrorKind = "upstream"
)

const (
	MessageNoAudioFile           = "No audio file provided"
	MessageNoFileSelected        = "No file selected"
	MessageNoProcessingType      = "No processing type specified"
	MessageInvalidProcessingType = "Invalid processing type"
	MessageCustomPromptRequired  = "Custom prompt is required"
	MessageEmptyAudio            = "Audio file is empty"
	MessageUnsupportedFormat     = "Unsupported audio format"
	MessageFileTooLarge          = "File too large"
	MessageMissingAPIKey         = "Please enter your Google Gemini API Key to proceed."
)

type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) error {
	return &Error{Kind: ErrorKindValidation, Message: message}
}

// NewUpstreamError keeps err in the chain and exposes message to callers.
func NewUpstreamError(message string, err error) error {
	return &Error{Kind: ErrorKindUpstream, Message: message, Err: err}
}

// KindOf returns the kind carried by err. Errors that were never classified
// are treated as upstream failures.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrorKindUpstream
}

func IsValidation(err error) bool {
	return err != nil && KindOf(err) == ErrorKindValidation
}

// MessageOf returns the client facing message of a classified error.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}
