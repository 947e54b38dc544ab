package entities

import "strings"

// ContentPart - モデル応答の1パート（テキストかインラインデータ）
type ContentPart struct {
	Text       string
	MimeType   string
	InlineData []byte
}

func (p ContentPart) HasInlineData() bool {
	return len(p.InlineData) > 0
}

type GenerationResponse struct {
	parts []ContentPart
}

func NewGenerationResponse(parts []ContentPart) *GenerationResponse {
	return &GenerationResponse{parts: parts}
}

func (r *GenerationResponse) Parts() []ContentPart {
	return r.parts
}

// Text - テキストパートを連結
func (r *GenerationResponse) Text() string {
	var texts []string
	for _, part := range r.parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "\n")
}
