package usecases

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"painting-demo/internal/domain/entities"
	"painting-demo/internal/domain/repositories"
	"painting-demo/internal/domain/valueobjects"
)

// PaintingGenerator - キャプチャを絵画に変換する（リトライは内部で行う）
type PaintingGenerator interface {
	Generate(ctx context.Context, source *valueobjects.ImageData) (*valueobjects.ImageData, error)
}

type PaintingUseCase struct {
	sessions  repositories.SessionRepository
	capture   repositories.CaptureProvider
	generator PaintingGenerator
	log       zerolog.Logger
}

func NewPaintingUseCase(
	sessions repositories.SessionRepository,
	capture repositories.CaptureProvider,
	generator PaintingGenerator,
	log zerolog.Logger,
) *PaintingUseCase {
	return &PaintingUseCase{
		sessions:  sessions,
		capture:   capture,
		generator: generator,
		log:       log,
	}
}

type GenerateOutput struct {
	Session  *entities.Session
	Painting *valueobjects.ImageData
}

// Generate - セッションの現在のビューを絵画化する
// 同一セッションで同時に走る生成は1つだけで、2つ目は ErrGenerationInProgress になる
func (uc *PaintingUseCase) Generate(ctx context.Context, id entities.SessionID) (*GenerateOutput, error) {
	var generating entities.GeneratingState
	_, err := uc.sessions.Update(ctx, id, func(s *entities.Session) error {
		return s.Apply(func(state entities.PipelineState) (entities.PipelineState, error) {
			next, err := entities.BeginGeneration(state)
			if err != nil {
				return nil, err
			}
			generating = next
			return next, nil
		})
	})
	if err != nil {
		return nil, err
	}

	log := uc.log.With().
		Str("session_id", string(id)).
		Str("view_id", string(generating.View.ID())).
		Logger()

	capture := generating.Capture
	if capture == nil {
		capture, err = uc.capture.CaptureView(ctx, generating.View)
		if err != nil {
			return nil, uc.fail(ctx, id, log, fmt.Errorf("failed to capture view: %w", err))
		}
		log.Debug().Int("bytes", capture.Size()).Msg("captured view")
	} else {
		log.Debug().Msg("reusing cached capture")
	}

	painting, err := uc.generator.Generate(ctx, capture)
	if err != nil {
		return nil, uc.fail(ctx, id, log, err)
	}

	// 呼び出し元が切断していても Generating から抜ける
	session, err := uc.sessions.Update(context.WithoutCancel(ctx), id, func(s *entities.Session) error {
		return s.Apply(func(state entities.PipelineState) (entities.PipelineState, error) {
			return entities.CompleteGeneration(state, capture, painting)
		})
	})
	if err != nil {
		// 保存に失敗したらビューに戻し、次の生成を受け付けられるようにする
		return nil, uc.fail(ctx, id, log, fmt.Errorf("failed to store painting: %w", err))
	}

	log.Info().Int("bytes", painting.Size()).Str("mime_type", painting.MimeType()).Msg("painting generated")
	return &GenerateOutput{Session: session, Painting: painting}, nil
}

// fail - 失敗を記録してビューに戻す（ベストエフォート）。cause をそのまま返す
func (uc *PaintingUseCase) fail(ctx context.Context, id entities.SessionID, log zerolog.Logger, cause error) error {
	log.Warn().Err(cause).Msg("painting generation failed")

	_, err := uc.sessions.Update(context.WithoutCancel(ctx), id, func(s *entities.Session) error {
		return s.Apply(func(state entities.PipelineState) (entities.PipelineState, error) {
			return entities.FailGeneration(state, cause)
		})
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to leave generating state")
	}

	return cause
}
