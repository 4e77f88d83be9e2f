// AngelaMos | 2026
// image.go

package recipe

import (
	"bytes"
	"errors"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrNotImage = errors.New("not a valid image")

// DetectImageFormat sniffs the upload and returns the file extension for
// its format. Anything the registered decoders cannot parse is rejected.
func DetectImageFormat(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrNotImage
	}
	if format == "jpeg" {
		return "jpg", nil
	}
	return format, nil
}
