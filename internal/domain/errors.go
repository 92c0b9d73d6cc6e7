package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPrompt = errors.New("prompt is required")
	ErrUnknownModel  = errors.New("unknown model")
	ErrMissingOutput = errors.New("job succeeded but returned no output")
	ErrPollTimeout   = errors.New("polling deadline exceeded")
	ErrSuperseded    = errors.New("superseded by a newer job")
)

// UpstreamError carries a non-2xx response from the generation API, either
// at submission or at poll time. Detail is the upstream error message when
// one was present in the response body.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// GenerationError reports a job that reached a failed or canceled terminal
// status. It is distinct from UpstreamError: the request itself succeeded,
// the generation did not.
type GenerationError struct {
	Status JobStatus
	Reason string
}

func (e *GenerationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("generation %s: %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("generation %s", e.Status)
}
