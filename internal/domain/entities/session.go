package entities

import (
	"time"

	"github.com/google/uuid"
)

type SessionID string

// Session - ユーザー1人分のパイプライン状態
type Session struct {
	id        SessionID
	state     PipelineState
	createdAt time.Time
	updatedAt time.Time
}

func NewSession() *Session {
	now := time.Now()
	return RestoreSession(SessionID(uuid.NewString()), NoViewState{}, now, now)
}

func RestoreSession(id SessionID, state PipelineState, createdAt, updatedAt time.Time) *Session {
	if state == nil {
		state = NoViewState{}
	}
	return &Session{
		id:        id,
		state:     state,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (s *Session) ID() SessionID {
	return s.id
}

func (s *Session) State() PipelineState {
	return s.state
}

func (s *Session) Phase() Phase {
	return s.state.Phase()
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) UpdatedAt() time.Time {
	return s.updatedAt
}

// Apply - 遷移の結果で状態を置き換える。エラー時は変更しない
func (s *Session) Apply(transition func(PipelineState) (PipelineState, error)) error {
	next, err := transition(s.state)
	if err != nil {
		return err
	}
	s.state = next
	s.updatedAt = time.Now()
	return nil
}

// Clone - 浅いコピー。状態は不変なので共有してよい
func (s *Session) Clone() *Session {
	copied := *s
	return &copied
}
