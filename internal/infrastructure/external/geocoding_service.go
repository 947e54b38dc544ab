package external

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"painting-demo/internal/domain/domainerrors"
	"painting-demo/internal/domain/repositories"
	"painting-demo/internal/domain/valueobjects"
	"painting-demo/model"
)

const geocodePath = "/maps/api/geocode/json"

type GeocodingService struct {
	httpClient *resty.Client
	apiKey     string
}

var _ repositories.Geocoder = (*GeocodingService)(nil)

func NewGeocodingService(baseURL, apiKey string) *GeocodingService {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15 * time.Second).
		SetHeader("Accept", "application/json")

	return &GeocodingService{
		httpClient: client,
		apiKey:     apiKey,
	}
}

func (s *GeocodingService) Geocode(ctx context.Context, address string) (*valueobjects.Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}

	var result model.GeocodeResponse
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParam("address", address).
		SetQueryParam("key", s.apiKey).
		SetResult(&result).
		Get(geocodePath)
	if err != nil {
		return nil, fmt.Errorf("failed to query geocoding API: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("geocoding API returned status %d: %s", resp.StatusCode(), resp.String())
	}

	switch result.Status {
	case model.GeocodeStatusOK:
	case model.GeocodeStatusZeroResults:
		return nil, fmt.Errorf("%w: %s", domainerrors.ErrLocationNotFound, address)
	default:
		return nil, fmt.Errorf("geocoding failed with status %s: %s", result.Status, result.ErrorMessage)
	}

	if len(result.Results) == 0 {
		return nil, fmt.Errorf("%w: %s", domainerrors.ErrLocationNotFound, address)
	}

	first := result.Results[0]
	return valueobjects.NewLocation(address, first.FormattedAddress, first.Geometry.Location.Lat, first.Geometry.Location.Lng)
}
