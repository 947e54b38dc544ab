package usecases

import (
	"context"
	"fmt"
	"strings"

	"painting-demo/internal/domain/domainerrors"
	"painting-demo/internal/domain/entities"
	"painting-demo/internal/domain/repositories"
	"painting-demo/internal/domain/valueobjects"
)

type SessionUseCase struct {
	sessions repositories.SessionRepository
	frames   repositories.FrameStore
	geocoder repositories.Geocoder
}

func NewSessionUseCase(
	sessions repositories.SessionRepository,
	frames repositories.FrameStore,
	geocoder repositories.Geocoder,
) *SessionUseCase {
	return &SessionUseCase{
		sessions: sessions,
		frames:   frames,
		geocoder: geocoder,
	}
}

type SubmitAddressInput struct {
	Address    string
	Parameters *valueobjects.ViewParameters
}

type DownloadOutput struct {
	Image    *valueobjects.ImageData
	Filename string
}

func (uc *SessionUseCase) Create(ctx context.Context) (*entities.Session, error) {
	session := entities.NewSession()
	if err := uc.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func (uc *SessionUseCase) Get(ctx context.Context, id entities.SessionID) (*entities.Session, error) {
	return uc.sessions.Get(ctx, id)
}

// SubmitAddress - 住所をジオコーディングし、新しいビューを表示する
func (uc *SessionUseCase) SubmitAddress(ctx context.Context, id entities.SessionID, input SubmitAddressInput) (*entities.Session, error) {
	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, &domainerrors.InvalidInputError{Reason: "address is required"}
	}

	// 存在しないセッションでジオコーディングしない
	if _, err := uc.sessions.Get(ctx, id); err != nil {
		return nil, err
	}

	location, err := uc.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode %q: %w", address, err)
	}

	view, err := entities.NewView(location, input.Parameters)
	if err != nil {
		return nil, err
	}

	return uc.sessions.Update(ctx, id, func(s *entities.Session) error {
		return s.Apply(func(state entities.PipelineState) (entities.PipelineState, error) {
			return entities.ShowView(state, view)
		})
	})
}

func (uc *SessionUseCase) Back(ctx context.Context, id entities.SessionID) (*entities.Session, error) {
	return uc.sessions.Update(ctx, id, func(s *entities.Session) error {
		return s.Apply(entities.Back)
	})
}

// PutFrame - 現在表示中のビューのブラウザキャプチャを保存する
func (uc *SessionUseCase) PutFrame(ctx context.Context, id entities.SessionID, dataURI string) error {
	frame, err := valueobjects.ParseDataURI(dataURI)
	if err != nil {
		return err
	}
	if frame, err = frame.ToPNG(); err != nil {
		return &domainerrors.InvalidInputError{Reason: err.Error()}
	}

	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return err
	}

	view := entities.ViewOf(session.State())
	if view == nil {
		return &domainerrors.NoActiveViewError{Detail: "resolve a location before sending frames"}
	}

	if err := uc.frames.Put(ctx, view.ID(), frame); err != nil {
		return fmt.Errorf("failed to store frame: %w", err)
	}
	return nil
}

func (uc *SessionUseCase) Download(ctx context.Context, id entities.SessionID) (*DownloadOutput, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ready, ok := session.State().(entities.ResultReadyState)
	if !ok {
		return nil, &domainerrors.InvalidTransitionError{From: string(session.Phase()), Event: "download a painting"}
	}

	return &DownloadOutput{
		Image:    ready.Result,
		Filename: valueobjects.DownloadFilename(ready.View.Location().FormattedAddress(), ready.Result),
	}, nil
}
