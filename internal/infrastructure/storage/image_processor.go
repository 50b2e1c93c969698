package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// ImageProcessor normalises generated images before they are stored.
type ImageProcessor struct {
	MaxBytes int64
	MaxSide  int
	Quality  int
	Formats  map[string]bool
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{
		MaxBytes: 20 * 1024 * 1024,
		MaxSide:  1024,
		Quality:  90,
		Formats:  map[string]bool{"jpeg": true, "png": true},
	}
}

// Validate rejects oversize payloads and formats other than JPEG/PNG.
func (p *ImageProcessor) Validate(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty image")
	}
	if int64(len(data)) > p.MaxBytes {
		return fmt.Errorf("image exceeds %dMB", p.MaxBytes/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("not an image: %w", err)
	}
	if !p.Formats[format] {
		return fmt.Errorf("image format %s not allowed", format)
	}
	return nil
}

// Normalize fits the image inside MaxSide x MaxSide and re-encodes it as JPEG.
func (p *ImageProcessor) Normalize(data []byte) ([]byte, error) {
	if err := p.Validate(data); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > p.MaxSide || bounds.Dy() > p.MaxSide {
		img = imaging.Fit(img, p.MaxSide, p.MaxSide, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("cannot encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
