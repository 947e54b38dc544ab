package repositories

import (
	"context"

	"painting-demo/internal/domain/entities"
	"painting-demo/internal/domain/valueobjects"
)

// 画像生成モデル (Gemini)
type PaintingModel interface {
	GeneratePainting(ctx context.Context, request *entities.GenerationRequest) (*entities.GenerationResponse, error)
}

// 地図ビューのキャプチャ
type CaptureProvider interface {
	// CaptureView - ビューの静止画を返す
	// 何も描画されていなければ NoActiveViewError
	CaptureView(ctx context.Context, view *entities.View) (*valueobjects.ImageData, error)
}

// 住所のジオコーディング
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*valueobjects.Location, error)
}
