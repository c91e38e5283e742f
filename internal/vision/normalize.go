package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

const jpegQuality = 85

// Normalizer converts a detected face region into the canonical sample
// format: a square grayscale image of fixed side length.
type Normalizer struct {
	size int
}

func NewNormalizer(size int) *Normalizer {
	return &Normalizer{size: size}
}

func (n *Normalizer) Size() int {
	return n.size
}

// Normalize crops region out of frame and scales it to size x size gray.
func (n *Normalizer) Normalize(frame image.Image, region image.Rectangle) (*image.Gray, error) {
	region = region.Intersect(frame.Bounds())
	if region.Empty() {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("region %v outside frame %v", region, frame.Bounds()))
	}

	dst := image.NewGray(image.Rect(0, 0, n.size, n.size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), frame, region, draw.Src, nil)
	return dst, nil
}

// Encode serializes a canonical sample to JPEG for storage.
func Encode(sample *image.Gray) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, sample, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode sample: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode, re-normalizing to the canonical dimensions in
// case stored samples predate a dimension change.
func (n *Normalizer) Decode(data []byte) (*image.Gray, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode sample: %w", err)
	}

	if gray, ok := img.(*image.Gray); ok && gray.Bounds().Dx() == n.size && gray.Bounds().Dy() == n.size {
		return gray, nil
	}
	return n.Normalize(img, img.Bounds())
}
