package repositories

import (
	"context"

	"google.golang.org/genai"
)

type GenAIBackend string

const (
	BackendGeminiAPI GenAIBackend = "gemini"
	BackendVertexAI  GenAIBackend = "vertex"
)

// AIクライアント共通設定
type AIClientConfig struct {
	Backend   GenAIBackend
	APIKey    string
	ProjectID string
	Location  string
}

// GenAI クライアントプール
// 絵画生成で使用するGenAIクライアントを遅延生成して共有する
type GenAIClientPool interface {
	GetGenAIClient(ctx context.Context) (*genai.Client, error)

	// リソースのクリーンアップ
	Close() error
}
