package internal

import (
	"image"
	"math"
)

// SSIM constants for 8-bit dynamic range, standard formulation:
// C1 = (K1*L)^2, C2 = (K2*L)^2 with K1=0.01, K2=0.03, L=255.
const (
	ssimC1 = 6.5025
	ssimC2 = 58.5225

	gaussianRadius = 3 // 7x7 window
	gaussianSigma  = 1.5
)

// gaussianKernel is the separable 7x7 Gaussian window, built once.
var gaussianKernel = buildGaussianKernel()

func buildGaussianKernel() [2*gaussianRadius + 1]float64 {
	var k [2*gaussianRadius + 1]float64
	sum := 0.0
	for i := -gaussianRadius; i <= gaussianRadius; i++ {
		v := math.Exp(-float64(i*i) / (2 * gaussianSigma * gaussianSigma))
		k[i+gaussianRadius] = v
		sum += v
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// Similarity computes the mean structural similarity index between two
// screenshots of identical dimensions. Returns a score in [0,1] where 1
// means pixel-identical. Fails with DimensionMismatchError if dimensions
// differ.
//
// The computation is deterministic: a single-threaded accumulation over
// grayscale pixels, so identical inputs always produce the identical score.
func Similarity(before, after *Screenshot) (float64, error) {
	if before.Width != after.Width || before.Height != after.Height {
		return 0, &DimensionMismatchError{
			BeforeWidth: before.Width, BeforeHeight: before.Height,
			AfterWidth: after.Width, AfterHeight: after.Height,
		}
	}
	// Degenerate captures have no pixels to compare; without this guard the
	// mean below divides by zero and the NaN slips past the clamps.
	if before.Width <= 0 || before.Height <= 0 {
		return 0, &DimensionMismatchError{
			BeforeWidth: before.Width, BeforeHeight: before.Height,
			AfterWidth: after.Width, AfterHeight: after.Height,
		}
	}

	w, h := before.Width, before.Height

	a := toFloat(before.Gray)
	b := toFloat(after.Gray)

	// Gaussian-windowed local statistics, computed with a separable blur.
	muA := gaussianBlur(a, w, h)
	muB := gaussianBlur(b, w, h)

	aa := make([]float64, len(a))
	bb := make([]float64, len(b))
	ab := make([]float64, len(a))
	for i := range a {
		aa[i] = a[i] * a[i]
		bb[i] = b[i] * b[i]
		ab[i] = a[i] * b[i]
	}
	sigmaAA := gaussianBlur(aa, w, h)
	sigmaBB := gaussianBlur(bb, w, h)
	sigmaAB := gaussianBlur(ab, w, h)

	var sum float64
	for i := range a {
		mA := muA[i]
		mB := muB[i]
		vA := sigmaAA[i] - mA*mA
		vB := sigmaBB[i] - mB*mB
		cov := sigmaAB[i] - mA*mB

		num := (2*mA*mB + ssimC1) * (2*cov + ssimC2)
		den := (mA*mA + mB*mB + ssimC1) * (vA + vB + ssimC2)
		sum += num / den
	}

	score := sum / float64(len(a))
	// Floating point can push the mean a hair past 1.0 on identical input;
	// clamp so identity compares exactly equal.
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score, nil
}

func toFloat(gray []uint8) []float64 {
	out := make([]float64, len(gray))
	for i, v := range gray {
		out[i] = float64(v)
	}
	return out
}

// gaussianBlur applies the separable 7x7 Gaussian window with edge clamping.
func gaussianBlur(src []float64, w, h int) []float64 {
	tmp := make([]float64, len(src))
	dst := make([]float64, len(src))

	// Horizontal pass
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			var acc float64
			for k := -gaussianRadius; k <= gaussianRadius; k++ {
				xx := x + k
				if xx < 0 {
					xx = 0
				} else if xx >= w {
					xx = w - 1
				}
				acc += src[row+xx] * gaussianKernel[k+gaussianRadius]
			}
			tmp[row+x] = acc
		}
	}

	// Vertical pass
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for k := -gaussianRadius; k <= gaussianRadius; k++ {
				yy := y + k
				if yy < 0 {
					yy = 0
				} else if yy >= h {
					yy = h - 1
				}
				acc += tmp[yy*w+x] * gaussianKernel[k+gaussianRadius]
			}
			dst[y*w+x] = acc
		}
	}

	return dst
}

// GrayFromImage converts a decoded image to the luminance plane used by the
// similarity engine, applying the standard Rec. 601 weights.
func GrayFromImage(img image.Image) ([]uint8, int, int) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	gray := make([]uint8, w*h)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// 16-bit channels scaled down after weighting.
			lum := (299*r + 587*g + 114*b) / 1000
			gray[i] = uint8(lum >> 8)
			i++
		}
	}
	return gray, w, h
}
