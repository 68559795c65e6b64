package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("invalid generation request")
	ErrBusy               = errors.New("a generation is already in progress")
	ErrServiceUnavailable = errors.New("generative service is not configured")
	ErrRead               = errors.New("media read failed")
	ErrAnalysis           = errors.New("audio analysis failed")
	ErrNoImageReturned    = errors.New("the model did not return an image")
	ErrDownload           = errors.New("result download failed")
	ErrPollTimeout        = errors.New("video job did not complete in time")
)

// GenerationError wraps a stage failure inside the generation workflow. The
// stage name is diagnostic only; handlers surface a single user-facing
// message per failed request.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// UserMessage returns the message shown to the end user. Most stage failures
// collapse to a generic message; actionable ones keep their own wording.
func (e *GenerationError) UserMessage() string {
	switch {
	case errors.Is(e.Err, ErrNoImageReturned):
		return "Image editing failed. The model did not return an image."
	case errors.Is(e.Err, ErrServiceUnavailable):
		return "The AI service is not configured. Please provide an API key."
	case errors.Is(e.Err, ErrPollTimeout):
		return "Video generation took too long and was abandoned."
	default:
		return "Generation failed."
	}
}
