package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadFilename(t *testing.T) {
	pngImage, err := NewImageData([]byte{1}, MimeTypePNG)
	require.NoError(t, err)
	jpegImage, err := NewImageData([]byte{1}, MimeTypeJPEG)
	require.NoError(t, err)

	tests := []struct {
		name    string
		address string
		image   *ImageData
		want    string
	}{
		{"spaces and punctuation", "Eiffel Tower, Paris", pngImage, "Eiffel_Tower__Paris_painting.png"},
		{"keeps dash and underscore", "Rue-du_Bac", pngImage, "Rue-du_Bac_painting.png"},
		{"non ascii replaced", "Köln Dom", jpegImage, "K_ln_Dom_painting.jpg"},
		{"empty address", "   ", pngImage, "map_painting.png"},
		{"nil image defaults to png", "Tokyo", nil, "Tokyo_painting.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DownloadFilename(tt.address, tt.image))
		})
	}
}
