package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"painting-demo/internal/domain/entities"
	"painting-demo/internal/domain/valueobjects"
)

// sessionSnapshot - 保存用のセッションJSON表現
type sessionSnapshot struct {
	ID        string         `json:"id"`
	Phase     string         `json:"phase"`
	View      *viewSnapshot  `json:"view,omitempty"`
	Capture   *imageSnapshot `json:"capture,omitempty"`
	Result    *imageSnapshot `json:"result,omitempty"`
	LastError string         `json:"last_error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type viewSnapshot struct {
	ID               string    `json:"id"`
	Query            string    `json:"query"`
	FormattedAddress string    `json:"formatted_address"`
	Latitude         float64   `json:"lat"`
	Longitude        float64   `json:"lng"`
	Zoom             int       `json:"zoom"`
	Tilt             float64   `json:"tilt"`
	Heading          float64   `json:"heading"`
	ResolvedAt       time.Time `json:"resolved_at"`
}

type imageSnapshot struct {
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

func encodeSession(session *entities.Session) ([]byte, error) {
	snapshot := sessionSnapshot{
		ID:        string(session.ID()),
		Phase:     string(session.Phase()),
		View:      toViewSnapshot(entities.ViewOf(session.State())),
		CreatedAt: session.CreatedAt(),
		UpdatedAt: session.UpdatedAt(),
	}

	switch s := session.State().(type) {
	case entities.ViewReadyState:
		snapshot.LastError = s.LastError
	case entities.GeneratingState:
		snapshot.Capture = toImageSnapshot(s.Capture)
	case entities.ResultReadyState:
		snapshot.Capture = toImageSnapshot(s.Capture)
		snapshot.Result = toImageSnapshot(s.Result)
	}

	return json.Marshal(snapshot)
}

func decodeSession(raw []byte) (*entities.Session, error) {
	var snapshot sessionSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	view, err := snapshot.View.restore()
	if err != nil {
		return nil, err
	}
	capture, err := snapshot.Capture.restore()
	if err != nil {
		return nil, err
	}
	result, err := snapshot.Result.restore()
	if err != nil {
		return nil, err
	}

	var state entities.PipelineState
	switch entities.Phase(snapshot.Phase) {
	case entities.PhaseNoView:
		state = entities.NoViewState{}
	case entities.PhaseViewReady:
		state = entities.ViewReadyState{View: view, LastError: snapshot.LastError}
	case entities.PhaseGenerating:
		state = entities.GeneratingState{View: view, Capture: capture}
	case entities.PhaseResultReady:
		state = entities.ResultReadyState{View: view, Capture: capture, Result: result}
	default:
		return nil, fmt.Errorf("unknown session phase: %q", snapshot.Phase)
	}

	if state.Phase() != entities.PhaseNoView && view == nil {
		return nil, fmt.Errorf("session %s in phase %s has no view", snapshot.ID, snapshot.Phase)
	}

	return entities.RestoreSession(
		entities.SessionID(snapshot.ID),
		state,
		snapshot.CreatedAt,
		snapshot.UpdatedAt,
	), nil
}

func toViewSnapshot(view *entities.View) *viewSnapshot {
	if view == nil {
		return nil
	}
	location := view.Location()
	params := view.Parameters()
	return &viewSnapshot{
		ID:               string(view.ID()),
		Query:            location.Query(),
		FormattedAddress: location.FormattedAddress(),
		Latitude:         location.Latitude(),
		Longitude:        location.Longitude(),
		Zoom:             params.Zoom(),
		Tilt:             params.Tilt(),
		Heading:          params.Heading(),
		ResolvedAt:       view.ResolvedAt(),
	}
}

func (v *viewSnapshot) restore() (*entities.View, error) {
	if v == nil {
		return nil, nil
	}
	location, err := valueobjects.NewLocation(v.Query, v.FormattedAddress, v.Latitude, v.Longitude)
	if err != nil {
		return nil, fmt.Errorf("failed to restore view location: %w", err)
	}
	params, err := valueobjects.NewViewParameters(v.Zoom, v.Tilt, v.Heading)
	if err != nil {
		return nil, fmt.Errorf("failed to restore view parameters: %w", err)
	}
	return entities.RestoreView(entities.ViewID(v.ID), location, params, v.ResolvedAt), nil
}

func toImageSnapshot(image *valueobjects.ImageData) *imageSnapshot {
	if image == nil {
		return nil
	}
	return &imageSnapshot{MimeType: image.MimeType(), Data: image.Data()}
}

func (i *imageSnapshot) restore() (*valueobjects.ImageData, error) {
	if i == nil {
		return nil, nil
	}
	return valueobjects.NewImageData(i.Data, i.MimeType)
}
