package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestResizeImage(t *testing.T) {
	src := encodePNG(t, 400, 200)

	out, format, err := ResizeImage(src, &ResizeConfig{MaxDimension: 100, OutputFormat: "jpg"})

	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	cfg, decoded, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", decoded)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestResizeImage_WithinBounds(t *testing.T) {
	src := encodePNG(t, 50, 80)

	out, format, err := ResizeImage(src, nil)

	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, src, out)
}

func TestResizeImage_NotAnImage(t *testing.T) {
	_, _, err := ResizeImage([]byte("hello"), nil)
	assert.Error(t, err)
}

func TestFit_Portrait(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 600))

	got := Fit(img, 200)

	assert.Equal(t, 100, got.Bounds().Dx())
	assert.Equal(t, 200, got.Bounds().Dy())
}
