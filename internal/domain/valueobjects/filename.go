package valueobjects

import (
	"regexp"
	"strings"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// DownloadFilename - 住所からダウンロード用のファイル名を作る
func DownloadFilename(address string, image *ImageData) string {
	name := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(address), "_")
	if name == "" {
		name = "map"
	}

	extension := ".png"
	if image != nil {
		extension = image.Extension()
	}

	return name + "_painting" + extension
}
