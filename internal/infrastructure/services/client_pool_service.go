package services

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"painting-demo/internal/domain/repositories"
)

// GenAI Client Pool実装
type genAIClientPool struct {
	config *repositories.AIClientConfig
	client *genai.Client
	mutex  sync.RWMutex

	newClient func(ctx context.Context, cc *genai.ClientConfig) (*genai.Client, error)
}

// 新しいGenAIクライアントプールを作成
func NewGenAIClientPool(config *repositories.AIClientConfig) repositories.GenAIClientPool {
	return &genAIClientPool{
		config:    config,
		newClient: genai.NewClient,
	}
}

func (p *genAIClientPool) GetGenAIClient(ctx context.Context) (*genai.Client, error) {
	p.mutex.RLock()
	if p.client != nil {
		defer p.mutex.RUnlock()
		return p.client, nil
	}
	p.mutex.RUnlock()

	p.mutex.Lock()
	defer p.mutex.Unlock()

	// ダブルチェックロッキング
	if p.client != nil {
		return p.client, nil
	}

	clientConfig, err := p.clientConfig()
	if err != nil {
		return nil, err
	}

	client, err := p.newClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	p.client = client
	return p.client, nil
}

func (p *genAIClientPool) clientConfig() (*genai.ClientConfig, error) {
	switch p.config.Backend {
	case repositories.BackendVertexAI:
		if p.config.ProjectID == "" {
			return nil, fmt.Errorf("project ID is required for the Vertex AI backend")
		}
		return &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  p.config.ProjectID,
			Location: p.config.Location,
		}, nil
	case repositories.BackendGeminiAPI, "":
		if p.config.APIKey == "" {
			return nil, fmt.Errorf("API key is required for the Gemini API backend")
		}
		return &genai.ClientConfig{
			Backend: genai.BackendGeminiAPI,
			APIKey:  p.config.APIKey,
		}, nil
	default:
		return nil, fmt.Errorf("unknown GenAI backend: %s", p.config.Backend)
	}
}

func (p *genAIClientPool) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	// GenAI Clientはリソースクリーンアップ不要
	p.client = nil
	return nil
}
