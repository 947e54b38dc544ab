package entities

import (
	"fmt"

	"painting-demo/internal/domain/valueobjects"
)

const DefaultPaintingModel = "gemini-2.5-flash-image"

// 絵画生成リクエスト
type GenerationRequest struct {
	model  string
	prompt string
	source *valueobjects.ImageData
}

func NewGenerationRequest(model string, prompt string, source *valueobjects.ImageData) (*GenerationRequest, error) {
	if source == nil {
		return nil, fmt.Errorf("source image is required")
	}

	if prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	if model == "" {
		model = DefaultPaintingModel
	}

	return &GenerationRequest{
		model:  model,
		prompt: prompt,
		source: source,
	}, nil
}

func (r *GenerationRequest) Model() string {
	return r.model
}

func (r *GenerationRequest) Prompt() string {
	return r.prompt
}

func (r *GenerationRequest) Source() *valueobjects.ImageData {
	return r.source
}
