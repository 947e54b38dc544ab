package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"painting-demo/internal/domain/domainerrors"
	"painting-demo/internal/domain/valueobjects"
)

func newTestImage(t *testing.T, b byte) *valueobjects.ImageData {
	t.Helper()
	img, err := valueobjects.NewImageData([]byte{b}, valueobjects.MimeTypePNG)
	require.NoError(t, err)
	return img
}

func newTestView(t *testing.T, address string) *View {
	t.Helper()
	location, err := valueobjects.NewLocation(address, address, 48.8584, 2.2945)
	require.NoError(t, err)
	view, err := NewView(location, nil)
	require.NoError(t, err)
	return view
}

func TestShowView(t *testing.T) {
	view := newTestView(t, "Eiffel Tower, Paris")
	capture := newTestImage(t, 1)
	result := newTestImage(t, 2)

	t.Run("from no view", func(t *testing.T) {
		next, err := ShowView(NoViewState{}, view)
		require.NoError(t, err)
		assert.Equal(t, ViewReadyState{View: view}, next)
	})

	t.Run("re-centering drops result and capture", func(t *testing.T) {
		other := newTestView(t, "Louvre, Paris")
		next, err := ShowView(ResultReadyState{View: view, Capture: capture, Result: result}, other)
		require.NoError(t, err)
		assert.Equal(t, ViewReadyState{View: other}, next)
	})

	t.Run("re-centering from view ready clears last error", func(t *testing.T) {
		next, err := ShowView(ViewReadyState{View: view, LastError: "x"}, view)
		require.NoError(t, err)
		assert.Equal(t, ViewReadyState{View: view}, next)
	})

	t.Run("rejected while generating", func(t *testing.T) {
		_, err := ShowView(GeneratingState{View: view}, view)
		assert.ErrorIs(t, err, domainerrors.ErrGenerationInProgress)
	})

	t.Run("nil view", func(t *testing.T) {
		_, err := ShowView(NoViewState{}, nil)
		var noView *domainerrors.NoActiveViewError
		assert.True(t, errors.As(err, &noView))
	})
}

func TestBeginGeneration(t *testing.T) {
	view := newTestView(t, "Eiffel Tower, Paris")
	capture := newTestImage(t, 1)

	tests := []struct {
		name        string
		state       PipelineState
		wantCapture *valueobjects.ImageData
		wantErr     func(error) bool
	}{
		{
			name:  "fresh view has no cached capture",
			state: ViewReadyState{View: view},
		},
		{
			name:        "re-run from result reuses capture",
			state:       ResultReadyState{View: view, Capture: capture, Result: newTestImage(t, 2)},
			wantCapture: capture,
		},
		{
			name:  "view after failure has no cached capture",
			state: ViewReadyState{View: view, LastError: "boom"},
		},
		{
			name:  "no view",
			state: NoViewState{},
			wantErr: func(err error) bool {
				var noView *domainerrors.NoActiveViewError
				return errors.As(err, &noView)
			},
		},
		{
			name:  "already generating",
			state: GeneratingState{View: view},
			wantErr: func(err error) bool {
				return errors.Is(err, domainerrors.ErrGenerationInProgress)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := BeginGeneration(tt.state)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, PhaseGenerating, next.Phase())
			assert.Same(t, view, next.View)
			assert.Equal(t, tt.wantCapture, next.Capture)
		})
	}
}

func TestCompleteAndFailGeneration(t *testing.T) {
	view := newTestView(t, "Eiffel Tower, Paris")
	capture := newTestImage(t, 1)
	result := newTestImage(t, 2)
	generating := GeneratingState{View: view}

	t.Run("complete stores result and keeps capture", func(t *testing.T) {
		next, err := CompleteGeneration(generating, capture, result)
		require.NoError(t, err)
		assert.Equal(t, ResultReadyState{View: view, Capture: capture, Result: result}, next)
	})

	t.Run("complete outside generating", func(t *testing.T) {
		_, err := CompleteGeneration(ViewReadyState{View: view}, capture, result)
		var invalid *domainerrors.InvalidTransitionError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, string(PhaseViewReady), invalid.From)
	})

	t.Run("fail clears capture and records message", func(t *testing.T) {
		next, err := FailGeneration(GeneratingState{View: view, Capture: capture}, errors.New("boom"))
		require.NoError(t, err)
		assert.Equal(t, ViewReadyState{View: view, LastError: "boom"}, next)
	})

	t.Run("fail outside generating", func(t *testing.T) {
		_, err := FailGeneration(NoViewState{}, errors.New("boom"))
		assert.Error(t, err)
	})
}

func TestBack(t *testing.T) {
	view := newTestView(t, "Eiffel Tower, Paris")
	capture := newTestImage(t, 1)

	next, err := Back(ResultReadyState{View: view, Capture: capture, Result: newTestImage(t, 2)})
	require.NoError(t, err)
	assert.Equal(t, PhaseViewReady, next.Phase())
	assert.Equal(t, ViewReadyState{View: view}, next)

	// Generating after Back needs a fresh capture.
	generating, err := BeginGeneration(next)
	require.NoError(t, err)
	assert.Nil(t, generating.Capture)

	for _, state := range []PipelineState{NoViewState{}, ViewReadyState{View: view}, GeneratingState{View: view}} {
		_, err := Back(state)
		assert.Error(t, err, "back from %s", state.Phase())
	}
}

func TestSession_Apply(t *testing.T) {
	session := NewSession()
	assert.Equal(t, PhaseNoView, session.Phase())
	assert.NotEmpty(t, session.ID())

	view := newTestView(t, "Eiffel Tower, Paris")
	require.NoError(t, session.Apply(func(s PipelineState) (PipelineState, error) {
		return ShowView(s, view)
	}))
	assert.Equal(t, PhaseViewReady, session.Phase())
	assert.Same(t, view, ViewOf(session.State()))

	err := session.Apply(Back)
	assert.Error(t, err)
	assert.Equal(t, PhaseViewReady, session.Phase())

	clone := session.Clone()
	require.NoError(t, clone.Apply(func(s PipelineState) (PipelineState, error) {
		next, err := BeginGeneration(s)
		return next, err
	}))
	assert.Equal(t, PhaseViewReady, session.Phase())
	assert.Equal(t, PhaseGenerating, clone.Phase())
}
