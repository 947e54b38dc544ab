package model

// GeocodeResponse - Geocoding API のレスポンス
type GeocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Results      []GeocodeResult `json:"results"`
}

// GeocodeResult - ジオコーディング結果1件
type GeocodeResult struct {
	FormattedAddress string   `json:"formatted_address"`
	PlaceID          string   `json:"place_id"`
	Geometry         Geometry `json:"geometry"`
}

type Geometry struct {
	Location LatLng `json:"location"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocoding API のステータス値
const (
	GeocodeStatusOK          = "OK"
	GeocodeStatusZeroResults = "ZERO_RESULTS"
)
