package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"painting-demo/internal/domain/valueobjects"
)

var validExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

func main() {
	inputDir := flag.String("in", "images", "directory with captures to encode")
	outputDir := flag.String("out", "encoded", "directory for the data URI files")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// images配下のキャプチャを data URI に変換して encoded 配下に保存する
	files, err := os.ReadDir(*inputDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *inputDir).Msg("read input directory")
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", *outputDir).Msg("create output directory")
	}

	for _, file := range files {
		if file.IsDir() || !slices.Contains(validExtensions, strings.ToLower(filepath.Ext(file.Name()))) {
			continue
		}

		uri, err := encode(filepath.Join(*inputDir, file.Name()))
		if err != nil {
			log.Error().Err(err).Str("file", file.Name()).Msg("encode")
			continue
		}

		name := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))
		target := filepath.Join(*outputDir, name+".txt")
		if err := os.WriteFile(target, []byte(uri), 0o644); err != nil {
			log.Error().Err(err).Str("file", target).Msg("write")
			continue
		}
		log.Info().Str("file", target).Int("bytes", len(uri)).Msg("encoded")
	}
}

// encode - 画像ファイルをPNGに変換してデータURIとして返す
func encode(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	mimeType, err := valueobjects.DetectMimeType(data)
	if err != nil {
		return "", fmt.Errorf("detect image format: %w", err)
	}

	img, err := valueobjects.NewImageData(data, mimeType)
	if err != nil {
		return "", err
	}

	png, err := img.ToPNG()
	if err != nil {
		return "", err
	}
	return png.DataURI(), nil
}
