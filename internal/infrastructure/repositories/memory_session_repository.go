package repositories

import (
	"context"
	"fmt"
	"sync"

	"painting-demo/internal/domain/domainerrors"
	"painting-demo/internal/domain/entities"
	domainrepos "painting-demo/internal/domain/repositories"
)

type MemorySessionRepository struct {
	sessions map[entities.SessionID]*entities.Session
	mu       sync.RWMutex
}

func NewMemorySessionRepository() domainrepos.SessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[entities.SessionID]*entities.Session),
	}
}

func (r *MemorySessionRepository) Create(ctx context.Context, session *entities.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID()]; exists {
		return fmt.Errorf("session already exists: %s", session.ID())
	}

	r.sessions[session.ID()] = session.Clone()
	return nil
}

func (r *MemorySessionRepository) Get(ctx context.Context, id entities.SessionID) (*entities.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", domainerrors.ErrSessionNotFound, id)
	}

	return session.Clone(), nil
}

// Update - fn の実行中は書き込みロックを保持する（更新同士が交差しない）
func (r *MemorySessionRepository) Update(
	ctx context.Context,
	id entities.SessionID,
	fn func(*entities.Session) error,
) (*entities.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.sessions[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", domainerrors.ErrSessionNotFound, id)
	}

	updated := stored.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}

	r.sessions[id] = updated
	return updated.Clone(), nil
}
