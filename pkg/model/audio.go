package model

import "strings"

// AudioPayload is the raw recording received by a front-end. It lives for a
// single request only.
type AudioPayload struct {
	FileName string
	MIMEType string
	Data     []byte
}

func (p AudioPayload) Validate() error {
	if strings.TrimSpace(p.FileName) == "" {
		return NewValidationError(MessageNoFileSelected)
	}
	if len(p.Data) == 0 {
		return NewValidationError(MessageEmptyAudio)
	}
	return nil
}

// Size returns the payload length in bytes.
func (p AudioPayload) Size() int {
	return len(p.Data)
}

// AudioInput is what a provider receives for one call. When URI is set the
// audio was uploaded beforehand and Data is ignored.
type AudioInput struct {
	FileName string
	MIMEType string
	Data     []byte
	URI      string
}

func (p AudioPayload) Input() AudioInput {
	return AudioInput{
		FileName: p.FileName,
		MIMEType: p.MIMEType,
		Data:     p.Data,
	}
}

// IsUploaded reports whether the input references provider-side storage.
func (in AudioInput) IsUploaded() bool {
	return strings.TrimSpace(in.URI) != ""
}

// UploadedAudio is a provider handle for audio pushed ahead of generation.
type UploadedAudio struct {
	Name     string
	URI      string
	MIMEType string
}

func (u UploadedAudio) Input(fileName string) AudioInput {
	return AudioInput{
		FileName: fileName,
		MIMEType: u.MIMEType,
		URI:      u.URI,
	}
}
