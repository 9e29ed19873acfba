package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	ErrTrackNotFound      = errors.New("track not found")
	ErrTrackNotActive     = errors.New("track is not active")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrSubmissionLocked   = errors.New("submission is no longer accepting answers")
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrAIUnavailable      = errors.New("AI service is unavailable")
)

var validate = validator.New()

// validateRequest runs the struct's validate tags and wraps failures in
// ErrInvalidRequest.
func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		return errors.Join(ErrInvalidRequest, err)
	}
	return nil
}
