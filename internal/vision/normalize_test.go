package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

func testFrame(w, h int) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			frame.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return frame
}

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(200)

	tests := []struct {
		name    string
		frame   image.Image
		region  image.Rectangle
		wantErr bool
	}{
		{
			name:   "interior region",
			frame:  testFrame(640, 480),
			region: image.Rect(100, 100, 300, 350),
		},
		{
			name:   "region partially outside frame is clamped",
			frame:  testFrame(640, 480),
			region: image.Rect(600, 400, 700, 500),
		},
		{
			name:   "tiny region upscales",
			frame:  testFrame(640, 480),
			region: image.Rect(10, 10, 20, 20),
		},
		{
			name:    "region fully outside frame",
			frame:   testFrame(640, 480),
			region:  image.Rect(1000, 1000, 1100, 1100),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample, err := n.Normalize(tt.frame, tt.region)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrValidationFailed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 200, sample.Bounds().Dx())
			assert.Equal(t, 200, sample.Bounds().Dy())
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	n := NewNormalizer(200)

	sample, err := n.Normalize(testFrame(640, 480), image.Rect(100, 100, 300, 300))
	require.NoError(t, err)

	data, err := Encode(sample)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	decoded, err := n.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, sample.Bounds(), decoded.Bounds())
}

func TestDecode_ResizesForeignDimensions(t *testing.T) {
	// A sample stored at 100x100 must come back at the configured size.
	small := NewNormalizer(100)
	sample, err := small.Normalize(testFrame(640, 480), image.Rect(0, 0, 100, 100))
	require.NoError(t, err)

	data, err := Encode(sample)
	require.NoError(t, err)

	n := NewNormalizer(200)
	decoded, err := n.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 200, decoded.Bounds().Dx())
	assert.Equal(t, 200, decoded.Bounds().Dy())
}

func TestDecode_RejectsGarbage(t *testing.T) {
	n := NewNormalizer(200)
	_, err := n.Decode([]byte("not an image"))
	require.Error(t, err)
}
