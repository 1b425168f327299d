package docprep

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/ridwanfathin/invoice-insights-service/internal/imageutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	mediaType, err := Detect(pngBytes(t, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mediaType)

	mediaType, err = Detect([]byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mediaType)

	_, err = Detect([]byte("proveedor;total\nMaersk;7500.50\n"))
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
}

func TestPrepare_ResizesImages(t *testing.T) {
	p := New(&imageutil.ResizeConfig{MaxDimension: 64, Quality: 80})

	doc, err := p.Prepare("scan.png", pngBytes(t, 256, 128))

	require.NoError(t, err)
	assert.Equal(t, "scan.png", doc.FileName)
	assert.Equal(t, "image/png", doc.MediaType)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(doc.Data))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestPrepare_RejectsText(t *testing.T) {
	_, err := New(nil).Prepare("notes.txt", []byte("hola"))
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
}
