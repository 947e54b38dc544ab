package domainerrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrGenerationInProgress = errors.New("painting generation already in progress")
	ErrSessionNotFound      = errors.New("session not found")
	ErrLocationNotFound     = errors.New("location not found")
)

// InvalidInputError - 入力画像が不正。リトライしない
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// UnexpectedTextResponseError - モデルが画像ではなくテキストを返した
type UnexpectedTextResponseError struct {
	Text string
}

func (e *UnexpectedTextResponseError) Error() string {
	if strings.TrimSpace(e.Text) == "" {
		return "model returned no image: no response"
	}
	return "model returned text instead of an image: " + e.Text
}

// ServiceError - モデルのエンドポイントが返したエラー
// 構造化された情報がない場合 Code と Status はゼロ値
type ServiceError struct {
	Code    int
	Status  string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Code == 0 && e.Status == "" {
		return fmt.Sprintf("service error: %s", e.Message)
	}
	return fmt.Sprintf("service error %d (%s): %s", e.Code, e.Status, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// RetryableServiceError - 再試行で成功しうるサーバー側の内部エラー
type RetryableServiceError struct {
	Err error
}

func (e *RetryableServiceError) Error() string {
	return "retryable service error: " + e.Err.Error()
}

func (e *RetryableServiceError) Unwrap() error {
	return e.Err
}

// GenerationExhaustedError - 全試行がリトライ可能なエラーで失敗した
type GenerationExhaustedError struct {
	Attempts int
	Err      error
}

func (e *GenerationExhaustedError) Error() string {
	return fmt.Sprintf("painting generation failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *GenerationExhaustedError) Unwrap() error {
	return e.Err
}

// NoActiveViewError - 描画済みのビューがないのにキャプチャや生成が要求された
type NoActiveViewError struct {
	Detail string
}

func (e *NoActiveViewError) Error() string {
	if e.Detail == "" {
		return "no active view"
	}
	return "no active view: " + e.Detail
}

type InvalidTransitionError struct {
	From  string
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s from phase %s", e.Event, e.From)
}

var internalErrorMarkers = []string{`"code":500`, `"code": 500`, "error 500", "internal"}

// IsRetryable - サーバー側の内部エラーかどうか
// 構造化コードを優先し、ない場合のみメッセージを見る
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var retryable *RetryableServiceError
	if errors.As(err, &retryable) {
		return true
	}

	var (
		invalidInput *InvalidInputError
		textResponse *UnexpectedTextResponseError
		noView       *NoActiveViewError
	)
	if errors.As(err, &invalidInput) || errors.As(err, &textResponse) || errors.As(err, &noView) {
		return false
	}

	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) && (serviceErr.Code != 0 || serviceErr.Status != "") {
		if serviceErr.Code >= 500 && serviceErr.Code <= 599 {
			return true
		}
		switch strings.ToUpper(serviceErr.Status) {
		case "INTERNAL", "UNAVAILABLE":
			return true
		}
		return false
	}

	description := strings.ToLower(err.Error())
	for _, marker := range internalErrorMarkers {
		if strings.Contains(description, marker) {
			return true
		}
	}
	return false
}
