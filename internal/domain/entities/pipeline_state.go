package entities

import (
	"painting-demo/internal/domain/domainerrors"
	"painting-demo/internal/domain/valueobjects"
)

type Phase string

const (
	PhaseNoView      Phase = "no_view"
	PhaseViewReady   Phase = "view_ready"
	PhaseGenerating  Phase = "generating"
	PhaseResultReady Phase = "result_ready"
)

// PipelineState - NoViewState / ViewReadyState / GeneratingState / ResultReadyState のいずれか
// 値は変更せず、遷移は常に新しい状態を返す
type PipelineState interface {
	Phase() Phase
	isPipelineState()
}

type NoViewState struct{}

// ViewReadyState - ライブの地図ビュー。キャプチャは保持しない
// LastError には直前の生成失敗のメッセージが入る
type ViewReadyState struct {
	View      *View
	LastError string
}

type GeneratingState struct {
	View    *View
	Capture *valueobjects.ImageData
}

type ResultReadyState struct {
	View    *View
	Capture *valueobjects.ImageData
	Result  *valueobjects.ImageData
}

func (NoViewState) Phase() Phase      { return PhaseNoView }
func (ViewReadyState) Phase() Phase   { return PhaseViewReady }
func (GeneratingState) Phase() Phase  { return PhaseGenerating }
func (ResultReadyState) Phase() Phase { return PhaseResultReady }

func (NoViewState) isPipelineState()      {}
func (ViewReadyState) isPipelineState()   {}
func (GeneratingState) isPipelineState()  {}
func (ResultReadyState) isPipelineState() {}

// ViewOf - 状態が持つビュー。NoViewState なら nil
func ViewOf(state PipelineState) *View {
	switch s := state.(type) {
	case ViewReadyState:
		return s.View
	case GeneratingState:
		return s.View
	case ResultReadyState:
		return s.View
	default:
		return nil
	}
}

// ShowView - 新しいビューへ遷移。以前のキャプチャと結果は破棄する
func ShowView(state PipelineState, view *View) (PipelineState, error) {
	if view == nil {
		return nil, &domainerrors.NoActiveViewError{Detail: "view is required"}
	}

	switch state.(type) {
	case GeneratingState:
		return nil, domainerrors.ErrGenerationInProgress
	default:
		return ViewReadyState{View: view}, nil
	}
}

// BeginGeneration - 生成中へ遷移。結果画面からの再実行時のみキャプチャを引き継ぐ
func BeginGeneration(state PipelineState) (GeneratingState, error) {
	switch s := state.(type) {
	case ViewReadyState:
		return GeneratingState{View: s.View}, nil
	case ResultReadyState:
		return GeneratingState{View: s.View, Capture: s.Capture}, nil
	case GeneratingState:
		return GeneratingState{}, domainerrors.ErrGenerationInProgress
	default:
		return GeneratingState{}, &domainerrors.NoActiveViewError{Detail: "resolve a location first"}
	}
}

// CompleteGeneration - 結果を保存し、再実行用にキャプチャを保持する
func CompleteGeneration(state PipelineState, capture, result *valueobjects.ImageData) (PipelineState, error) {
	s, ok := state.(GeneratingState)
	if !ok {
		return nil, invalidTransition(state, "complete generation")
	}

	if capture == nil || result == nil {
		return nil, &domainerrors.InvalidInputError{Reason: "capture and result are required"}
	}

	return ResultReadyState{View: s.View, Capture: capture, Result: result}, nil
}

// FailGeneration - ビューに戻る。次の生成では改めてキャプチャする
func FailGeneration(state PipelineState, cause error) (PipelineState, error) {
	s, ok := state.(GeneratingState)
	if !ok {
		return nil, invalidTransition(state, "fail generation")
	}

	message := ""
	if cause != nil {
		message = cause.Error()
	}

	return ViewReadyState{View: s.View, LastError: message}, nil
}

// Back - 結果を破棄してライブビューに戻る。キャプチャも破棄する
func Back(state PipelineState) (PipelineState, error) {
	s, ok := state.(ResultReadyState)
	if !ok {
		return nil, invalidTransition(state, "go back")
	}

	return ViewReadyState{View: s.View}, nil
}

func invalidTransition(state PipelineState, event string) error {
	from := "unknown"
	if state != nil {
		from = string(state.Phase())
	}
	return &domainerrors.InvalidTransitionError{From: from, Event: event}
}
