package repositories

import (
	"context"

	"painting-demo/internal/domain/entities"
	"painting-demo/internal/domain/valueobjects"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entities.Session) error
	Get(ctx context.Context, id entities.SessionID) (*entities.Session, error)

	// Update - 保存済みセッションのコピーに fn を適用し、成功した場合のみ保存する
	// 読み込みから書き込みまではセッション単位でアトミック
	Update(ctx context.Context, id entities.SessionID, fn func(*entities.Session) error) (*entities.Session, error)
}

// ブラウザがキャプチャしたフレーム（ビュー単位）
type FrameStore interface {
	Put(ctx context.Context, viewID entities.ViewID, frame *valueobjects.ImageData) error
	Get(ctx context.Context, viewID entities.ViewID) (*valueobjects.ImageData, error)
}
