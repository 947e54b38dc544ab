package metrics

import (
	"context"
	"errors"
	"time"

	"painting-demo/internal/domain/domainerrors"
	"painting-demo/internal/domain/entities"
	"painting-demo/internal/domain/repositories"
	"painting-demo/internal/domain/valueobjects"
)

type Generator interface {
	Generate(ctx context.Context, source *valueobjects.ImageData) (*valueobjects.ImageData, error)
}

type instrumentedGenerator struct {
	inner Generator
}

// InstrumentGenerator - 生成ごとの所要時間と最終ステータスを記録する
func InstrumentGenerator(inner Generator) Generator {
	return &instrumentedGenerator{inner: inner}
}

func (g *instrumentedGenerator) Generate(ctx context.Context, source *valueobjects.ImageData) (*valueobjects.ImageData, error) {
	start := time.Now()
	painting, err := g.inner.Generate(ctx, source)
	GenerationDuration.Observe(time.Since(start).Seconds())
	GenerationsTotal.WithLabelValues(GenerationStatus(err)).Inc()
	return painting, err
}

// GenerationStatus - 生成の最終結果のラベル
func GenerationStatus(err error) string {
	var exhausted *domainerrors.GenerationExhaustedError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &exhausted):
		return "exhausted"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "fatal"
	}
}

// ObserveAttempt - モデル呼び出しを1回カウント
func ObserveAttempt(attempt entities.GenerationAttempt) {
	GenerationAttemptsTotal.WithLabelValues(string(attempt.Outcome)).Inc()
}

type instrumentedCaptureProvider struct {
	provider string
	inner    repositories.CaptureProvider
}

func InstrumentCaptureProvider(provider string, inner repositories.CaptureProvider) repositories.CaptureProvider {
	return &instrumentedCaptureProvider{provider: provider, inner: inner}
}

func (p *instrumentedCaptureProvider) CaptureView(ctx context.Context, view *entities.View) (*valueobjects.ImageData, error) {
	capture, err := p.inner.CaptureView(ctx, view)
	CapturesTotal.WithLabelValues(p.provider, StatusLabel(err)).Inc()
	return capture, err
}
