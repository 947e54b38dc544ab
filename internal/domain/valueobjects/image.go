package valueobjects

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"regexp"
	"strings"

	_ "golang.org/x/image/webp"

	"painting-demo/internal/domain/domainerrors"
)

type ImageFormat string

const (
	JPEG ImageFormat = "jpeg"
	PNG  ImageFormat = "png"
	GIF  ImageFormat = "gif"
	WEBP ImageFormat = "webp"
)

const (
	MimeTypePNG  = "image/png"
	MimeTypeJPEG = "image/jpeg"
	MimeTypeGIF  = "image/gif"
	MimeTypeWEBP = "image/webp"
)

var formatsByMimeType = map[string]ImageFormat{
	MimeTypePNG:  PNG,
	MimeTypeJPEG: JPEG,
	MimeTypeGIF:  GIF,
	MimeTypeWEBP: WEBP,
}

// data:<mime>;base64,<payload>
var dataURIPattern = regexp.MustCompile(`^data:([a-zA-Z0-9.+-]+/[a-zA-Z0-9.+-]+);base64,(.+)$`)

// ImageData - エンコード済み画像とMIMEタイプ（不変）
type ImageData struct {
	data     []byte
	mimeType string
}

func NewImageData(data []byte, mimeType string) (*ImageData, error) {
	if len(data) == 0 {
		return nil, &domainerrors.InvalidInputError{Reason: "image data cannot be empty"}
	}

	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if _, ok := formatsByMimeType[mimeType]; !ok {
		return nil, &domainerrors.InvalidInputError{Reason: fmt.Sprintf("unsupported image mime type: %q", mimeType)}
	}

	copied := make([]byte, len(data))
	copy(copied, data)

	return &ImageData{
		data:     copied,
		mimeType: mimeType,
	}, nil
}

// ParseDataURI - "data:<mime>;base64,<payload>" をデコード
func ParseDataURI(uri string) (*ImageData, error) {
	matches := dataURIPattern.FindStringSubmatch(strings.TrimSpace(uri))
	if matches == nil {
		return nil, &domainerrors.InvalidInputError{Reason: "image is not a base64 data URI"}
	}

	payload, err := base64.StdEncoding.DecodeString(matches[2])
	if err != nil {
		return nil, &domainerrors.InvalidInputError{Reason: fmt.Sprintf("invalid base64 payload: %v", err)}
	}

	return NewImageData(payload, matches[1])
}

// Data - バイト列のコピーを返す
func (i *ImageData) Data() []byte {
	copied := make([]byte, len(i.data))
	copy(copied, i.data)
	return copied
}

func (i *ImageData) Size() int {
	return len(i.data)
}

func (i *ImageData) MimeType() string {
	return i.mimeType
}

func (i *ImageData) Format() ImageFormat {
	return formatsByMimeType[i.mimeType]
}

func (i *ImageData) IsPNG() bool {
	return i.Format() == PNG
}

// Extension - ドット付きの拡張子
func (i *ImageData) Extension() string {
	if i.Format() == JPEG {
		return ".jpg"
	}
	return "." + string(i.Format())
}

func (i *ImageData) ToBase64() string {
	return base64.StdEncoding.EncodeToString(i.data)
}

func (i *ImageData) DataURI() string {
	return "data:" + i.mimeType + ";base64," + i.ToBase64()
}

// ToPNG - PNGに再エンコード。PNGならそのまま返す
func (i *ImageData) ToPNG() (*ImageData, error) {
	if i.IsPNG() {
		return i, nil
	}

	img, _, err := image.Decode(bytes.NewReader(i.data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode to PNG: %w", err)
	}

	return &ImageData{
		data:     buf.Bytes(),
		mimeType: MimeTypePNG,
	}, nil
}

// DetectMimeType - データから画像形式を判定
func DetectMimeType(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	for mimeType, f := range formatsByMimeType {
		if string(f) == format {
			return mimeType, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %s", format)
}
