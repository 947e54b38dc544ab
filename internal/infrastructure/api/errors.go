package api

import (
	"errors"
	"net/http"

	"painting-demo/internal/domain/domainerrors"
)

// statusFor - ユースケースのエラーをHTTPステータスに変換
func statusFor(err error) int {
	var (
		invalidInput *domainerrors.InvalidInputError
		noView       *domainerrors.NoActiveViewError
		transition   *domainerrors.InvalidTransitionError
		textResponse *domainerrors.UnexpectedTextResponseError
		exhausted    *domainerrors.GenerationExhaustedError
	)

	switch {
	case errors.As(err, &exhausted):
		return http.StatusServiceUnavailable
	case errors.As(err, &invalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domainerrors.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainerrors.ErrGenerationInProgress),
		errors.As(err, &noView),
		errors.As(err, &transition):
		return http.StatusConflict
	case errors.Is(err, domainerrors.ErrLocationNotFound):
		return http.StatusUnprocessableEntity
	case errors.As(err, &textResponse):
		return http.StatusBadGateway
	case domainerrors.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
