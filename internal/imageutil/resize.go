package imageutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// DefaultMaxDimension is the default maximum dimension for resizing. Large
// enough to keep invoice line items legible for vision models.
const DefaultMaxDimension = 1600

// ResizeConfig holds configuration for image resizing
type ResizeConfig struct {
	MaxDimension int    // Maximum width or height (default 1600)
	Quality      int    // JPEG quality 1-100 (default 85)
	OutputFormat string // "png" or "jpeg"; empty keeps the source format
}

// DefaultConfig returns default resize configuration
func DefaultConfig() *ResizeConfig {
	return &ResizeConfig{
		MaxDimension: DefaultMaxDimension,
		Quality:      85,
	}
}

// ResizeImage resizes encoded image data if it exceeds the max dimension while
// maintaining aspect ratio. Images within bounds are returned untouched. The
// second return value is the format of the returned bytes.
func ResizeImage(imageData []byte, config *ResizeConfig) ([]byte, string, error) {
	if config == nil {
		config = DefaultConfig()
	}

	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= config.MaxDimension && bounds.Dy() <= config.MaxDimension {
		return imageData, format, nil
	}

	outputFormat := config.OutputFormat
	if outputFormat == "" {
		outputFormat = format
	}

	data, err := Encode(Fit(img, config.MaxDimension), outputFormat, config.Quality)
	if err != nil {
		return nil, "", err
	}
	return data, normalizeFormat(outputFormat), nil
}

// Fit scales img down so neither side exceeds maxDimension
func Fit(img image.Image, maxDimension int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if maxDimension <= 0 || (width <= maxDimension && height <= maxDimension) {
		return img
	}

	// Calculate new dimensions maintaining aspect ratio
	var newWidth, newHeight int
	if width > height {
		newWidth = maxDimension
		newHeight = int(float64(height) * float64(maxDimension) / float64(width))
	} else {
		newHeight = maxDimension
		newWidth = int(float64(width) * float64(maxDimension) / float64(height))
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))

	// CatmullRom is similar to Lanczos
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst
}

// Encode writes img as jpeg or png. Unknown formats are written as png.
func Encode(img image.Image, format string, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = 85
	}

	var buf bytes.Buffer
	var err error
	switch normalizeFormat(format) {
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	default:
		err = png.Encode(&buf, img)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), nil
}

func normalizeFormat(format string) string {
	switch format {
	case "jpeg", "jpg":
		return "jpeg"
	default:
		return "png"
	}
}
