// Package docprep turns uploaded files into documents an extractor can read.
// Images are downscaled; PDFs are rendered to an image of their first page.
package docprep

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gen2brain/go-fitz"
	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/ridwanfathin/invoice-insights-service/internal/imageutil"
)

// ErrUnsupportedMediaType is returned for files that are neither images nor PDFs
var ErrUnsupportedMediaType = errors.New("unsupported media type")

const pdfMediaType = "application/pdf"

// Preparer converts raw uploads into extractor input
type Preparer struct {
	resize *imageutil.ResizeConfig
}

// New creates a Preparer. A nil config uses imageutil.DefaultConfig.
func New(config *imageutil.ResizeConfig) *Preparer {
	if config == nil {
		config = imageutil.DefaultConfig()
	}
	return &Preparer{resize: config}
}

// Detect sniffs the media type of data. Only images and PDFs are accepted.
func Detect(data []byte) (string, error) {
	mtype := mimetype.Detect(data)
	if mtype.Is(pdfMediaType) {
		return pdfMediaType, nil
	}
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return mtype.String(), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mtype.String())
}

// Detect is the package level Detect, for callers holding a Preparer
func (p *Preparer) Detect(data []byte) (string, error) {
	return Detect(data)
}

// Prepare sniffs, renders and resizes data. The returned document keeps the
// original file name.
func (p *Preparer) Prepare(fileName string, data []byte) (domain.Document, error) {
	mediaType, err := Detect(data)
	if err != nil {
		return domain.Document{}, err
	}

	if mediaType == pdfMediaType {
		rendered, err := p.renderFirstPage(data)
		if err != nil {
			return domain.Document{}, err
		}
		return domain.Document{FileName: fileName, MediaType: "image/jpeg", Data: rendered}, nil
	}

	resized, format, err := imageutil.ResizeImage(data, p.resize)
	if err != nil {
		// Formats the standard decoders do not know (webp, heic) are sent as is
		return domain.Document{FileName: fileName, MediaType: mediaType, Data: data}, nil
	}
	return domain.Document{FileName: fileName, MediaType: "image/" + format, Data: resized}, nil
}

// renderFirstPage rasterises page one of a PDF with MuPDF
func (p *Preparer) renderFirstPage(data []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("failed to render PDF page: %w", err)
	}

	return imageutil.Encode(imageutil.Fit(img, p.resize.MaxDimension), "jpeg", p.resize.Quality)
}
