package valueobjects

import (
	"fmt"
	"strings"
)

// Location - ジオコーディング済みの住所
type Location struct {
	query            string
	formattedAddress string
	latitude         float64
	longitude        float64
}

func NewLocation(query, formattedAddress string, latitude, longitude float64) (*Location, error) {
	if strings.TrimSpace(query) == "" && strings.TrimSpace(formattedAddress) == "" {
		return nil, fmt.Errorf("location requires an address")
	}

	if latitude < -90 || latitude > 90 {
		return nil, fmt.Errorf("latitude out of range: %f", latitude)
	}

	if longitude < -180 || longitude > 180 {
		return nil, fmt.Errorf("longitude out of range: %f", longitude)
	}

	if formattedAddress == "" {
		formattedAddress = query
	}

	return &Location{
		query:            query,
		formattedAddress: formattedAddress,
		latitude:         latitude,
		longitude:        longitude,
	}, nil
}

func (l *Location) Query() string {
	return l.query
}

func (l *Location) FormattedAddress() string {
	return l.formattedAddress
}

func (l *Location) Latitude() float64 {
	return l.latitude
}

func (l *Location) Longitude() float64 {
	return l.longitude
}

// LatLng - "lat,lng" 形式の座標
func (l *Location) LatLng() string {
	return fmt.Sprintf("%.6f,%.6f", l.latitude, l.longitude)
}
