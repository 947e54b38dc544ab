package valueobjects

import (
	"fmt"
)

const (
	MinZoom = 1
	MaxZoom = 21

	MaxTilt = 67.5

	DefaultZoom    = 18
	DefaultTilt    = 45.0
	DefaultHeading = 0.0
)

// ViewParameters - 地図ビューのカメラ設定
type ViewParameters struct {
	zoom    int
	tilt    float64
	heading float64
}

func NewViewParameters(zoom int, tilt float64, heading float64) (*ViewParameters, error) {
	if zoom < MinZoom || zoom > MaxZoom {
		return nil, fmt.Errorf("zoom must be between %d and %d, got %d", MinZoom, MaxZoom, zoom)
	}

	if tilt < 0 || tilt > MaxTilt {
		return nil, fmt.Errorf("tilt must be between 0 and %.1f, got %.1f", MaxTilt, tilt)
	}

	if heading < 0 || heading >= 360 {
		return nil, fmt.Errorf("heading must be between 0 and 360, got %.1f", heading)
	}

	return &ViewParameters{
		zoom:    zoom,
		tilt:    tilt,
		heading: heading,
	}, nil
}

func DefaultViewParameters() *ViewParameters {
	params, _ := NewViewParameters(DefaultZoom, DefaultTilt, DefaultHeading)
	return params
}

func (p *ViewParameters) Zoom() int {
	return p.zoom
}

func (p *ViewParameters) Tilt() float64 {
	return p.tilt
}

func (p *ViewParameters) Heading() float64 {
	return p.heading
}
