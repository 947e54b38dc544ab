package repositories

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"painting-demo/internal/domain/domainerrors"
	"painting-demo/internal/domain/entities"
	domainrepos "painting-demo/internal/domain/repositories"
	"painting-demo/internal/domain/valueobjects"
)

func newTestRedisConfig(t *testing.T) (RedisConfig, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return RedisConfig{Addr: mr.Addr(), Prefix: "test:", TTL: time.Hour}, mr
}

func newRedisRepositories(t *testing.T) (domainrepos.SessionRepository, domainrepos.FrameStore) {
	t.Helper()
	cfg, _ := newTestRedisConfig(t)
	client, err := NewRedisClient(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewRedisClient error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionRepository(client, cfg), NewRedisFrameStore(client, cfg)
}

func testImage(t *testing.T, payload string) *valueobjects.ImageData {
	t.Helper()
	img, err := valueobjects.NewImageData([]byte(payload), valueobjects.MimeTypePNG)
	require.NoError(t, err)
	return img
}

func testView(t *testing.T) *entities.View {
	t.Helper()
	location, err := valueobjects.NewLocation("Eiffel Tower, Paris", "Av. Gustave Eiffel, 75007 Paris, France", 48.8583701, 2.2944813)
	require.NoError(t, err)
	view, err := entities.NewView(location, nil)
	require.NoError(t, err)
	return view
}

func sessionRepositories(t *testing.T) map[string]func(t *testing.T) domainrepos.SessionRepository {
	return map[string]func(t *testing.T) domainrepos.SessionRepository{
		"memory": func(t *testing.T) domainrepos.SessionRepository { return NewMemorySessionRepository() },
		"redis": func(t *testing.T) domainrepos.SessionRepository {
			repo, _ := newRedisRepositories(t)
			return repo
		},
	}
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	for name, newRepo := range sessionRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)

			session := entities.NewSession()
			require.NoError(t, repo.Create(ctx, session))
			assert.Error(t, repo.Create(ctx, session))

			got, err := repo.Get(ctx, session.ID())
			require.NoError(t, err)
			assert.Equal(t, entities.PhaseNoView, got.Phase())

			view := testView(t)
			updated, err := repo.Update(ctx, session.ID(), func(s *entities.Session) error {
				return s.Apply(func(state entities.PipelineState) (entities.PipelineState, error) {
					return entities.ShowView(state, view)
				})
			})
			require.NoError(t, err)
			assert.Equal(t, entities.PhaseViewReady, updated.Phase())

			capture := testImage(t, "capture")
			result := testImage(t, "result")
			_, err = repo.Update(ctx, session.ID(), func(s *entities.Session) error {
				return s.Apply(func(state entities.PipelineState) (entities.PipelineState, error) {
					generating, err := entities.BeginGeneration(state)
					if err != nil {
						return nil, err
					}
					return entities.CompleteGeneration(generating, capture, result)
				})
			})
			require.NoError(t, err)

			got, err = repo.Get(ctx, session.ID())
			require.NoError(t, err)
			ready, ok := got.State().(entities.ResultReadyState)
			require.True(t, ok, "got %T", got.State())
			assert.Equal(t, view.ID(), ready.View.ID())
			assert.Equal(t, "Av. Gustave Eiffel, 75007 Paris, France", ready.View.Location().FormattedAddress())
			assert.Equal(t, []byte("capture"), ready.Capture.Data())
			assert.Equal(t, []byte("result"), ready.Result.Data())
		})
	}
}

func TestSessionRepository_FailedUpdateLeavesSessionUntouched(t *testing.T) {
	for name, newRepo := range sessionRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)
			session := entities.NewSession()
			require.NoError(t, repo.Create(ctx, session))

			_, err := repo.Update(ctx, session.ID(), func(s *entities.Session) error {
				return s.Apply(func(state entities.PipelineState) (entities.PipelineState, error) {
					return entities.BeginGeneration(state)
				})
			})
			var noView *domainerrors.NoActiveViewError
			require.True(t, errors.As(err, &noView), "got %v", err)

			got, err := repo.Get(ctx, session.ID())
			require.NoError(t, err)
			assert.Equal(t, entities.PhaseNoView, got.Phase())
		})
	}
}

func TestSessionRepository_NotFound(t *testing.T) {
	for name, newRepo := range sessionRepositories(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)

			_, err := repo.Get(context.Background(), "missing")
			assert.ErrorIs(t, err, domainerrors.ErrSessionNotFound)

			_, err = repo.Update(context.Background(), "missing", func(*entities.Session) error { return nil })
			assert.ErrorIs(t, err, domainerrors.ErrSessionNotFound)
		})
	}
}

func TestSessionRepository_ConcurrentBeginGenerationAdmitsOne(t *testing.T) {
	for name, newRepo := range sessionRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)
			session := entities.NewSession()
			require.NoError(t, repo.Create(ctx, session))

			view := testView(t)
			_, err := repo.Update(ctx, session.ID(), func(s *entities.Session) error {
				return s.Apply(func(state entities.PipelineState) (entities.PipelineState, error) {
					return entities.ShowView(state, view)
				})
			})
			require.NoError(t, err)

			const workers = 6
			var (
				wg       sync.WaitGroup
				mu       sync.Mutex
				admitted int
				rejected int
			)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := repo.Update(ctx, session.ID(), func(s *entities.Session) error {
						return s.Apply(func(state entities.PipelineState) (entities.PipelineState, error) {
							return entities.BeginGeneration(state)
						})
					})
					mu.Lock()
					defer mu.Unlock()
					if err == nil {
						admitted++
					} else if errors.Is(err, domainerrors.ErrGenerationInProgress) {
						rejected++
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, admitted)
			assert.Equal(t, workers-1, rejected)
		})
	}
}

func TestRedisSessionRepository_AppliesTTL(t *testing.T) {
	cfg, mr := newTestRedisConfig(t)
	client, err := NewRedisClient(context.Background(), cfg)
	require.NoError(t, err)
	defer client.Close()

	repo := NewRedisSessionRepository(client, cfg)
	session := entities.NewSession()
	require.NoError(t, repo.Create(context.Background(), session))

	assert.Equal(t, time.Hour, mr.TTL("test:session:"+string(session.ID())))

	mr.FastForward(2 * time.Hour)
	_, err = repo.Get(context.Background(), session.ID())
	assert.ErrorIs(t, err, domainerrors.ErrSessionNotFound)
}

func TestNewRedisClient_Errors(t *testing.T) {
	_, err := NewRedisClient(context.Background(), RedisConfig{})
	assert.Error(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = NewRedisClient(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestDecodeSession_RejectsCorruptSnapshots(t *testing.T) {
	_, err := decodeSession([]byte(`{"id":"x","phase":"dreaming"}`))
	assert.Error(t, err)

	_, err = decodeSession([]byte(`{"id":"x","phase":"view_ready"}`))
	assert.Error(t, err)

	_, err = decodeSession([]byte(`not json`))
	assert.Error(t, err)
}
