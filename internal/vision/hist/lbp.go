package hist

import "image"

// lbpGrid partitions a sample into lbpGrid x lbpGrid cells; the feature
// vector concatenates one 256-bin local-binary-pattern histogram per cell,
// each L1-normalized so cell size does not weight the distance.
const lbpGrid = 8

const lbpBins = 256

// Feature computes the LBP histogram feature vector of a grayscale sample.
func Feature(img *image.Gray) []float32 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	feat := make([]float32, lbpGrid*lbpGrid*lbpBins)
	counts := make([]int, lbpGrid*lbpGrid)

	at := func(x, y int) uint8 {
		return img.GrayAt(b.Min.X+x, b.Min.Y+y).Y
	}

	// Border pixels have no full 8-neighborhood and are skipped.
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			center := at(x, y)
			var code uint8
			if at(x-1, y-1) >= center {
				code |= 1 << 0
			}
			if at(x, y-1) >= center {
				code |= 1 << 1
			}
			if at(x+1, y-1) >= center {
				code |= 1 << 2
			}
			if at(x+1, y) >= center {
				code |= 1 << 3
			}
			if at(x+1, y+1) >= center {
				code |= 1 << 4
			}
			if at(x, y+1) >= center {
				code |= 1 << 5
			}
			if at(x-1, y+1) >= center {
				code |= 1 << 6
			}
			if at(x-1, y) >= center {
				code |= 1 << 7
			}

			cell := (y*lbpGrid/h)*lbpGrid + x*lbpGrid/w
			feat[cell*lbpBins+int(code)]++
			counts[cell]++
		}
	}

	for cell, n := range counts {
		if n == 0 {
			continue
		}
		for bin := 0; bin < lbpBins; bin++ {
			feat[cell*lbpBins+bin] /= float32(n)
		}
	}
	return feat
}
