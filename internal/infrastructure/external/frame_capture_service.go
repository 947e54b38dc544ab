package external

import (
	"context"
	"errors"
	"fmt"

	"painting-demo/internal/domain/domainerrors"
	"painting-demo/internal/domain/entities"
	"painting-demo/internal/domain/repositories"
	"painting-demo/internal/domain/valueobjects"
)

// FrameCaptureService - ブラウザが送ってきたビューの最新フレームを返す
type FrameCaptureService struct {
	frames repositories.FrameStore
}

var _ repositories.CaptureProvider = (*FrameCaptureService)(nil)

func NewFrameCaptureService(frames repositories.FrameStore) *FrameCaptureService {
	return &FrameCaptureService{frames: frames}
}

func (s *FrameCaptureService) CaptureView(ctx context.Context, view *entities.View) (*valueobjects.ImageData, error) {
	if view == nil {
		return nil, &domainerrors.NoActiveViewError{}
	}

	frame, err := s.frames.Get(ctx, view.ID())
	if err != nil {
		var noView *domainerrors.NoActiveViewError
		if errors.As(err, &noView) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load frame: %w", err)
	}

	return frame, nil
}
