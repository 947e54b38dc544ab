package services

import (
	"net/http"
	"strconv"

	"painting-demo/internal/domain/domainerrors"
	"painting-demo/internal/domain/valueobjects"
)

// ViewParametersInput - カメラ設定（nil の項目はデフォルト値）
type ViewParametersInput struct {
	Zoom    *int
	Tilt    *float64
	Heading *float64
}

type ParameterService struct{}

func NewParameterService() *ParameterService {
	return &ParameterService{}
}

// ParseFromRequest - フォームから zoom/tilt/heading を読む
// 未指定や範囲外の値はデフォルトに戻す
func (s *ParameterService) ParseFromRequest(r *http.Request) *valueobjects.ViewParameters {
	zoom := s.getInt(r, "zoom", valueobjects.DefaultZoom, valueobjects.MinZoom, valueobjects.MaxZoom)
	tilt := s.getFloat(r, "tilt", valueobjects.DefaultTilt, 0, valueobjects.MaxTilt)
	heading := s.getFloat(r, "heading", valueobjects.DefaultHeading, 0, 360)

	params, err := valueobjects.NewViewParameters(zoom, tilt, heading)
	if err != nil {
		// headingは360未満のみ有効
		return valueobjects.DefaultViewParameters()
	}
	return params
}

// Resolve - 未設定の項目にデフォルトを入れてバリデーションする
func (s *ParameterService) Resolve(input ViewParametersInput) (*valueobjects.ViewParameters, error) {
	zoom := valueobjects.DefaultZoom
	if input.Zoom != nil {
		zoom = *input.Zoom
	}

	tilt := valueobjects.DefaultTilt
	if input.Tilt != nil {
		tilt = *input.Tilt
	}

	heading := valueobjects.DefaultHeading
	if input.Heading != nil {
		heading = *input.Heading
	}

	params, err := valueobjects.NewViewParameters(zoom, tilt, heading)
	if err != nil {
		return nil, &domainerrors.InvalidInputError{Reason: err.Error()}
	}
	return params, nil
}

func (s *ParameterService) getInt(r *http.Request, key string, defaultValue, min, max int) int {
	value := r.FormValue(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if intVal < min || intVal > max {
		return defaultValue
	}

	return intVal
}

func (s *ParameterService) getFloat(r *http.Request, key string, defaultValue, min, max float64) float64 {
	value := r.FormValue(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	if floatVal < min || floatVal > max {
		return defaultValue
	}

	return floatVal
}
