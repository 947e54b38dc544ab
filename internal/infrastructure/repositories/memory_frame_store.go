package repositories

import (
	"context"
	"sync"
	"time"

	"painting-demo/internal/domain/domainerrors"
	"painting-demo/internal/domain/entities"
	domainrepos "painting-demo/internal/domain/repositories"
	"painting-demo/internal/domain/valueobjects"
)

type storedFrame struct {
	frame    *valueobjects.ImageData
	storedAt time.Time
}

// MemoryFrameStore - ビューごとに最新フレームを保持する
// ttl を過ぎたフレームは次の Put で破棄
type MemoryFrameStore struct {
	frames map[entities.ViewID]storedFrame
	ttl    time.Duration
	now    func() time.Time
	mu     sync.RWMutex
}

func NewMemoryFrameStore(ttl time.Duration) domainrepos.FrameStore {
	return &MemoryFrameStore{
		frames: make(map[entities.ViewID]storedFrame),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *MemoryFrameStore) Put(ctx context.Context, viewID entities.ViewID, frame *valueobjects.ImageData) error {
	if frame == nil {
		return &domainerrors.InvalidInputError{Reason: "frame is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.ttl > 0 {
		for id, stored := range s.frames {
			if now.Sub(stored.storedAt) > s.ttl {
				delete(s.frames, id)
			}
		}
	}

	s.frames[viewID] = storedFrame{frame: frame, storedAt: now}
	return nil
}

func (s *MemoryFrameStore) Get(ctx context.Context, viewID entities.ViewID) (*valueobjects.ImageData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.frames[viewID]
	if !exists || (s.ttl > 0 && s.now().Sub(stored.storedAt) > s.ttl) {
		return nil, &domainerrors.NoActiveViewError{Detail: "no frame captured for the current view"}
	}

	return stored.frame, nil
}
