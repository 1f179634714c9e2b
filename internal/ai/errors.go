package ai

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/anthropics/anthropic-sdk-go"
)

// ModelError is the structured failure surfaced to the result pipeline: a
// human-readable message plus an optional machine code (the HTTP status for
// API-reported errors, empty for transport failures).
type ModelError struct {
	Message string
	Code    string
}

func (e *ModelError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("model request failed with code %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("model request failed: %s", e.Message)
}

// classify converts SDK and transport errors into ModelError so downstream
// code has one error shape to report.
func classify(err error, context string) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &ModelError{
			Message: apiErr.Error(),
			Code:    strconv.Itoa(apiErr.StatusCode),
		}
	}
	return &ModelError{Message: fmt.Sprintf("%s: %v", context, err)}
}
