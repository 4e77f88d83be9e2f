// AngelaMos | 2026
// image_test.go

package recipe

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), A: 255})
		}
	}
	return img
}

func TestDetectImageFormat_PNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))

	ext, err := DetectImageFormat(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "png", ext)
}

func TestDetectImageFormat_JPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(), nil))

	ext, err := DetectImageFormat(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "jpg", ext)
}

func TestDetectImageFormat_NotImage(t *testing.T) {
	_, err := DetectImageFormat([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = DetectImageFormat(nil)
	assert.ErrorIs(t, err, ErrNotImage)
}
