package external

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"painting-demo/internal/domain/domainerrors"
	"painting-demo/internal/domain/entities"
	"painting-demo/internal/domain/repositories"
	"painting-demo/internal/domain/valueobjects"
)

const (
	staticMapPath  = "/maps/api/staticmap"
	staticMapSize  = "640x640"
	staticMapScale = "2"
)

// StaticMapCaptureService - Static Maps API でサーバー側でビューを描画する
type StaticMapCaptureService struct {
	httpClient *resty.Client
	apiKey     string
	log        zerolog.Logger
}

var _ repositories.CaptureProvider = (*StaticMapCaptureService)(nil)

func NewStaticMapCaptureService(baseURL, apiKey string, log zerolog.Logger) *StaticMapCaptureService {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30 * time.Second)

	return &StaticMapCaptureService{
		httpClient: client,
		apiKey:     apiKey,
		log:        log,
	}
}

func (s *StaticMapCaptureService) CaptureView(ctx context.Context, view *entities.View) (*valueobjects.ImageData, error) {
	if view == nil || view.Location() == nil {
		return nil, &domainerrors.NoActiveViewError{}
	}

	params := view.Parameters()
	if params == nil {
		params = valueobjects.DefaultViewParameters()
	}

	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"center":  view.Location().LatLng(),
			"zoom":    strconv.Itoa(params.Zoom()),
			"size":    staticMapSize,
			"scale":   staticMapScale,
			"maptype": "satellite",
			"format":  "png",
			"key":     s.apiKey,
		}).
		Get(staticMapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch static map: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("static map API returned status %d: %s", resp.StatusCode(), resp.String())
	}

	body := resp.Body()
	mimeType, err := valueobjects.DetectMimeType(body)
	if err != nil {
		return nil, fmt.Errorf("static map API returned a non image payload: %w", err)
	}

	capture, err := valueobjects.NewImageData(body, mimeType)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("viewID", string(view.ID())).
		Str("mimeType", mimeType).
		Int("bytes", capture.Size()).
		Msg("captured static map")

	return capture.ToPNG()
}
