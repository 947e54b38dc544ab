package external

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"painting-demo/internal/domain/domainerrors"
	"painting-demo/internal/domain/entities"
	"painting-demo/internal/domain/repositories"
)

type GeminiPaintingService struct {
	clientPool repositories.GenAIClientPool
	log        zerolog.Logger
}

func NewGeminiPaintingService(clientPool repositories.GenAIClientPool, log zerolog.Logger) repositories.PaintingModel {
	return &GeminiPaintingService{
		clientPool: clientPool,
		log:        log,
	}
}

func (s *GeminiPaintingService) GeneratePainting(ctx context.Context, request *entities.GenerationRequest) (*entities.GenerationResponse, error) {
	s.log.Debug().
		Str("model", request.Model()).
		Str("mimeType", request.Source().MimeType()).
		Int("sourceBytes", request.Source().Size()).
		Msg("GeneratePainting")

	client, err := s.clientPool.GetGenAIClient(ctx)
	if err != nil {
		return nil, err
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(request.Source().Data(), request.Source().MimeType()),
		genai.NewPartFromText(request.Prompt()),
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	// gemini-2.5-flash-image は複数候補を返せないため CandidateCount は指定しない
	result, err := client.Models.GenerateContent(ctx, request.Model(), contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		return nil, toServiceError(err)
	}

	response := toGenerationResponse(result)

	s.log.Debug().
		Int("candidatesCount", len(result.Candidates)).
		Int("partsCount", len(response.Parts())).
		Msg("Gemini API response")

	return response, nil
}

// toGenerationResponse - 最初の候補をパートの列に変換
func toGenerationResponse(result *genai.GenerateContentResponse) *entities.GenerationResponse {
	if result == nil || len(result.Candidates) == 0 {
		return entities.NewGenerationResponse(nil)
	}

	candidate := result.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return entities.NewGenerationResponse(nil)
	}

	var parts []entities.ContentPart
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}

		switch {
		case part.InlineData != nil && len(part.InlineData.Data) > 0:
			parts = append(parts, entities.ContentPart{
				MimeType:   part.InlineData.MIMEType,
				InlineData: part.InlineData.Data,
			})
		case part.Text != "":
			parts = append(parts, entities.ContentPart{Text: part.Text})
		}
	}

	return entities.NewGenerationResponse(parts)
}

// toServiceError - APIエラーのコードとステータスを保持する
// リトライ判定がエラーメッセージの文字列に依存しないようにするため
func toServiceError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &domainerrors.ServiceError{Code: apiErr.Code, Status: apiErr.Status, Message: apiErr.Message, Err: err}
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &domainerrors.ServiceError{Code: apiErrPtr.Code, Status: apiErrPtr.Status, Message: apiErrPtr.Message, Err: err}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return &domainerrors.ServiceError{Message: err.Error(), Err: fmt.Errorf("failed to generate content: %w", err)}
}
