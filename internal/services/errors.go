package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures so the HTTP and CLI layers can map them.
type ErrorKind string

const (
	KindInvalidInput         ErrorKind = "invalid_input"
	KindUnprocessable        ErrorKind = "unprocessable"
	KindUpstreamUnavailable  ErrorKind = "upstream_unavailable"
	KindMalformedModelOutput ErrorKind = "malformed_model_output"
	KindServiceError         ErrorKind = "service_error"
)

type EvaluationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *EvaluationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message string, err error) *EvaluationError {
	return &EvaluationError{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of the outermost EvaluationError in err's chain.
// Errors that carry no kind are service errors.
func KindOf(err error) ErrorKind {
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return evalErr.Kind
	}
	return KindServiceError
}

// MessageOf returns the client-facing message of the outermost EvaluationError.
func MessageOf(err error) string {
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return evalErr.Message
	}
	return ""
}
