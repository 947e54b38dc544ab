package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"painting-demo/internal/domain/domainerrors"
	"painting-demo/internal/domain/entities"
	"painting-demo/internal/domain/repositories"
	"painting-demo/internal/domain/valueobjects"
)

// 絵画モデルのリトライ設定（変更不可）
const (
	MaxAttempts       = 3
	InitialDelay      = 1000 * time.Millisecond
	BackoffMultiplier = 2.0
)

// PaintingStylePrompt - 全キャプチャに付与するスタイル指示
var PaintingStylePrompt = strings.Join([]string{
	`Transform this tilted satellite view into a hand-painted artwork.`,
	`Keep the composition, the layout of streets, buildings, water and vegetation exactly as seen from this camera angle.`,
	`Render it as a vibrant impressionist oil painting with visible brush strokes, rich color and soft natural light.`,
	`Do not add text, labels, map markers or borders.`,
	`Return only the painted image.`,
}, " ")

// AttemptObserver - 各試行の結果とバックオフが確定した時点で呼ばれる
type AttemptObserver func(attempt entities.GenerationAttempt)

type PaintingDomainService struct {
	paintingModel repositories.PaintingModel
	modelName     string
	observer      AttemptObserver
	newTimer      func() backoff.Timer
}

type PaintingOption func(*PaintingDomainService)

func WithModelName(modelName string) PaintingOption {
	return func(s *PaintingDomainService) {
		s.modelName = modelName
	}
}

func WithAttemptObserver(observer AttemptObserver) PaintingOption {
	return func(s *PaintingDomainService) {
		s.observer = observer
	}
}

// WithTimer - バックオフ待機用タイマーの差し替え（テスト用）
func WithTimer(newTimer func() backoff.Timer) PaintingOption {
	return func(s *PaintingDomainService) {
		s.newTimer = newTimer
	}
}

func NewPaintingDomainService(paintingModel repositories.PaintingModel, opts ...PaintingOption) *PaintingDomainService {
	s := &PaintingDomainService{
		paintingModel: paintingModel,
		modelName:     entities.DefaultPaintingModel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate - キャプチャ画像を絵画モデルに送り、生成された絵画を返す
// サーバー側の内部エラーのみ指数バックオフで MaxAttempts 回まで再試行し、
// それ以外のエラーは1回目で返す
func (s *PaintingDomainService) Generate(ctx context.Context, source *valueobjects.ImageData) (*valueobjects.ImageData, error) {
	if err := s.validateSource(source); err != nil {
		return nil, err
	}

	request, err := entities.NewGenerationRequest(s.modelName, PaintingStylePrompt, source)
	if err != nil {
		return nil, &domainerrors.InvalidInputError{Reason: err.Error()}
	}

	var (
		attempts int
		painting *valueobjects.ImageData
		pending  *entities.GenerationAttempt
	)

	operation := func() error {
		attempts++
		started := time.Now()

		response, err := s.paintingModel.GeneratePainting(ctx, request)
		attempt := entities.GenerationAttempt{
			Number:  attempts,
			Elapsed: time.Since(started),
			Err:     err,
		}

		if err == nil {
			painting, err = s.extractImage(response)
			if err != nil {
				attempt.Outcome = entities.AttemptFatal
				attempt.Err = err
				s.observe(attempt)
				return backoff.Permanent(err)
			}
			attempt.Outcome = entities.AttemptSucceeded
			s.observe(attempt)
			return nil
		}

		switch {
		case domainerrors.IsRetryable(err):
			var retryable *domainerrors.RetryableServiceError
			if !errors.As(err, &retryable) {
				err = &domainerrors.RetryableServiceError{Err: err}
			}
			attempt.Outcome = entities.AttemptRetryable
			attempt.Err = err
			pending = &attempt
			return err
		default:
			attempt.Outcome = entities.AttemptFatal
			s.observe(attempt)
			return backoff.Permanent(err)
		}
	}

	notify := func(_ error, next time.Duration) {
		if pending != nil {
			pending.Backoff = next
			s.observe(*pending)
			pending = nil
		}
	}

	var timer backoff.Timer
	if s.newTimer != nil {
		timer = s.newTimer()
	}

	err = backoff.RetryNotifyWithTimer(operation, s.newBackOff(ctx), notify, timer)
	if pending != nil {
		s.observe(*pending)
		pending = nil
	}
	if err == nil {
		return painting, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return nil, fmt.Errorf("painting generation aborted after %d attempts: %w", attempts, err)
	}

	var retryable *domainerrors.RetryableServiceError
	if errors.As(err, &retryable) {
		return nil, &domainerrors.GenerationExhaustedError{Attempts: attempts, Err: err}
	}

	return nil, err
}

// newBackOff - 試行 n+1 の前に InitialDelay * 2^(n-1) 待つ（ジッターなし）
func (s *PaintingDomainService) newBackOff(ctx context.Context) backoff.BackOff {
	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = InitialDelay
	exponential.Multiplier = BackoffMultiplier
	exponential.RandomizationFactor = 0
	exponential.MaxInterval = InitialDelay << MaxAttempts
	exponential.MaxElapsedTime = 0
	exponential.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(exponential, MaxAttempts-1), ctx)
}

// extractImage - レスポンス中の最初のインライン画像パートを取り出す
func (s *PaintingDomainService) extractImage(response *entities.GenerationResponse) (*valueobjects.ImageData, error) {
	if response == nil {
		return nil, &domainerrors.UnexpectedTextResponseError{}
	}

	for _, part := range response.Parts() {
		if !part.HasInlineData() {
			continue
		}

		mimeType := part.MimeType
		if mimeType != "" {
			// "image/png; charset=binary" のようなパラメータ付きの値が返ることがある
			mediaType, _, err := mime.ParseMediaType(mimeType)
			if err != nil {
				return nil, &domainerrors.InvalidInputError{Reason: fmt.Sprintf("invalid painting mime type %q: %v", mimeType, err)}
			}
			mimeType = mediaType
		} else {
			detected, err := valueobjects.DetectMimeType(part.InlineData)
			if err != nil {
				return nil, fmt.Errorf("failed to detect painting format: %w", err)
			}
			mimeType = detected
		}

		image, err := valueobjects.NewImageData(part.InlineData, mimeType)
		if err != nil {
			return nil, fmt.Errorf("failed to create image data: %w", err)
		}
		return image, nil
	}

	return nil, &domainerrors.UnexpectedTextResponseError{Text: response.Text()}
}

func (s *PaintingDomainService) validateSource(source *valueobjects.ImageData) error {
	if source == nil {
		return &domainerrors.InvalidInputError{Reason: "source image is required"}
	}

	if source.Size() == 0 {
		return &domainerrors.InvalidInputError{Reason: "source image is empty"}
	}

	if source.Format() == "" {
		return &domainerrors.InvalidInputError{Reason: fmt.Sprintf("unsupported image mime type: %q", source.MimeType())}
	}

	return nil
}

func (s *PaintingDomainService) observe(attempt entities.GenerationAttempt) {
	if s.observer != nil {
		s.observer(attempt)
	}
}
