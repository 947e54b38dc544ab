package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"structured 500", &ServiceError{Code: 500, Status: "INTERNAL", Message: "boom"}, true},
		{"structured 503", &ServiceError{Code: 503, Status: "UNAVAILABLE"}, true},
		{"structured internal status without code", &ServiceError{Status: "internal"}, true},
		{"structured 400", &ServiceError{Code: 400, Status: "INVALID_ARGUMENT", Message: "internal looking text"}, false},
		{"structured 429", &ServiceError{Code: 429, Status: "RESOURCE_EXHAUSTED"}, false},
		{"unstructured json marker", errors.New(`{"error":{"code":500,"message":"x"}}`), true},
		{"unstructured sdk marker", errors.New("Error 500, Message: Internal error encountered."), true},
		{"unstructured plain", errors.New("connection refused"), false},
		{"wrapped structured", fmt.Errorf("call failed: %w", &ServiceError{Code: 502}), true},
		{"already classified", &RetryableServiceError{Err: errors.New("x")}, true},
		{"invalid input", &InvalidInputError{Reason: "bad"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestUnexpectedTextResponseError_Message(t *testing.T) {
	assert.Equal(t, "model returned no image: no response", (&UnexpectedTextResponseError{Text: "  "}).Error())
	assert.Contains(t, (&UnexpectedTextResponseError{Text: "I cannot draw that"}).Error(), "I cannot draw that")
}

func TestGenerationExhaustedError_Unwrap(t *testing.T) {
	last := &ServiceError{Code: 500}
	err := &GenerationExhaustedError{Attempts: 3, Err: &RetryableServiceError{Err: last}}

	var serviceErr *ServiceError
	assert.True(t, errors.As(err, &serviceErr))
	assert.Same(t, last, serviceErr)
	assert.Contains(t, err.Error(), "3 attempts")
}

func TestIsRetryable_FatalKindsIgnoreDescription(t *testing.T) {
	assert.False(t, IsRetryable(&UnexpectedTextResponseError{Text: "Internal styles are not supported"}))
	assert.False(t, IsRetryable(&NoActiveViewError{Detail: "internal"}))
}
