package imaging

import (
	"bytes"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Degradation kinds recognized by Classify (spec §4.7.1).
const (
	KindBlur        = "blur"
	KindNoise       = "noise"
	KindLowLight    = "low-light"
	KindCompression = "compression"
	KindScratch     = "scratch"
	KindFade        = "fade"
	KindColorShift  = "color-shift"
)

// DegradationClassifier computes the seven-scalar degradation map used to
// drive the prompt enhancer. It operates on already-preprocessed JPEG
// bytes, so compression heuristics always apply.
type DegradationClassifier struct{}

// NewDegradationClassifier constructs the classifier. It has no state: all
// heuristics are pure functions of the decoded pixel buffer.
func NewDegradationClassifier() *DegradationClassifier { return &DegradationClassifier{} }

// Classify implements worker.Classifier. A heuristic that yields NaN or Inf
// falls back to a documented conservative scalar rather than failing the
// whole classification (spec §4.7.1). A panic inside a heuristic is not
// recovered, and no warning is logged for a fallback.
func (c *DegradationClassifier) Classify(data []byte) (map[string]float64, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	gray := imaging.Grayscale(img)

	out := make(map[string]float64, 7)
	out[KindBlur] = safeScalar(blurScore(gray), 0.3)
	out[KindNoise] = safeScalar(noiseScore(gray), 0.2)
	out[KindLowLight] = safeScalar(lowLightScore(img), 0.0)
	out[KindCompression] = safeScalar(compressionScore(gray), 0.0)
	out[KindScratch] = safeScalar(scratchScore(gray), 0.0)
	out[KindFade] = safeScalar(fadeScore(img), 0.0)
	out[KindColorShift] = safeScalar(colorShiftScore(img), 0.0)
	return out, nil
}

func safeScalar(v float64, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return clamp01(v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// laplacianKernel is the discrete 4-neighbor Laplacian used for the blur
// and noise heuristics below.
var laplacianKernel = [9]float64{
	0, 1, 0,
	1, -4, 1,
	0, 1, 0,
}

// blurScore inverts the normalized variance of the image's Laplacian
// response: sharp edges produce high-variance responses, so a low
// variance indicates blur.
func blurScore(gray *image.NRGBA) float64 {
	resp := imaging.Convolve3x3(gray, laplacianKernel, nil)
	variance := grayVariance(resp)
	// Normalize against an empirically reasonable ceiling for 8-bit
	// intensity Laplacian variance; higher variance saturates to 0 (sharp).
	const ceiling = 2000.0
	normalized := variance / ceiling
	if normalized > 1 {
		normalized = 1
	}
	return 1 - normalized
}

// noiseScore estimates sensor/compression noise as the standard deviation
// of a high-pass response (original minus a heavily blurred copy).
func noiseScore(gray *image.NRGBA) float64 {
	blurred := imaging.Blur(gray, 2.0)
	highPass := subtractGray(gray, blurred)
	stddev := math.Sqrt(grayVariance(highPass))
	const ceiling = 40.0
	return stddev / ceiling
}

// lowLightScore is a piecewise function on mean luminance: zero above 0.3,
// ramping linearly to 1 as luminance approaches 0.
func lowLightScore(img image.Image) float64 {
	mean := meanLuminance(img)
	const threshold = 0.3
	if mean >= threshold {
		return 0
	}
	return (threshold - mean) / threshold
}

// compressionScore is a lightweight blockiness heuristic: the variance
// change between the source and a light blur tends to be larger for
// blocky JPEG artifacts than for clean gradients. Only meaningful for
// JPEG-sourced images; callers pass preprocessed JPEG bytes, so this
// always applies.
func compressionScore(gray *image.NRGBA) float64 {
	blurred := imaging.Blur(gray, 0.6)
	varSrc := grayVariance(gray)
	varBlur := grayVariance(blurred)
	if varSrc <= 0 {
		return 0
	}
	delta := (varSrc - varBlur) / varSrc
	return delta * 2 // blockiness typically shows as a small fractional delta
}

// scratchScore samples a coarse grid and measures the density of
// high-contrast linear runs (horizontal or vertical) characteristic of
// physical scratches on archival prints.
func scratchScore(gray *image.NRGBA) float64 {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 8 || h < 8 {
		return 0
	}
	const grid = 16
	stepX := w / grid
	stepY := h / grid
	if stepX == 0 {
		stepX = 1
	}
	if stepY == 0 {
		stepY = 1
	}
	hits, total := 0, 0
	const contrastThreshold = 60
	for y := b.Min.Y; y < b.Max.Y-stepY; y += stepY {
		for x := b.Min.X; x < b.Max.X-1; x++ {
			total++
			l0 := grayAt(gray, x, y)
			l1 := grayAt(gray, x+1, y)
			if absInt(l0-l1) > contrastThreshold {
				hits++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 8 // scale a sparse density into [0,1]
}

// fadeScore combines reduced colorfulness and reduced contrast, the two
// hallmarks of a faded archival photo.
func fadeScore(img image.Image) float64 {
	colorfulness := colorfulness(img)
	contrast := contrastScore(img)
	return 0.5*(1-colorfulness) + 0.5*(1-contrast)
}

// colorShiftScore measures the largest per-channel mean deviation from the
// cross-channel mean, characteristic of a color cast (e.g. sepia drift).
func colorShiftScore(img image.Image) float64 {
	rMean, gMean, bMean, _ := channelMeans(img)
	cross := (rMean + gMean + bMean) / 3
	maxDev := math.Max(math.Abs(rMean-cross), math.Max(math.Abs(gMean-cross), math.Abs(bMean-cross)))
	const ceiling = 60.0
	return maxDev / ceiling
}

func grayAt(img *image.NRGBA, x, y int) int {
	i := img.PixOffset(x, y)
	return int(img.Pix[i])
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func grayVariance(img *image.NRGBA) float64 {
	b := img.Bounds()
	n := 0
	var sum, sumSq float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := float64(grayAt(img, x, y))
			sum += v
			sumSq += v * v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}

func subtractGray(a, b *image.NRGBA) *image.NRGBA {
	bounds := a.Bounds()
	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			diff := absInt(grayAt(a, x, y) - grayAt(b, x, y))
			i := out.PixOffset(x, y)
			out.Pix[i] = uint8(diff)
			out.Pix[i+1] = uint8(diff)
			out.Pix[i+2] = uint8(diff)
			out.Pix[i+3] = 255
		}
	}
	return out
}

func meanLuminance(img image.Image) float64 {
	b := img.Bounds()
	var sum float64
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y += sampleStride(b) {
		for x := b.Min.X; x < b.Max.X; x += sampleStride(b) {
			r, g, bl, _ := img.At(x, y).RGBA()
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
			sum += lum / 255
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return sum / float64(n)
}

func channelMeans(img image.Image) (rMean, gMean, bMean, n float64) {
	b := img.Bounds()
	var rSum, gSum, bSum float64
	count := 0.0
	for y := b.Min.Y; y < b.Max.Y; y += sampleStride(b) {
		for x := b.Min.X; x < b.Max.X; x += sampleStride(b) {
			r, g, bl, _ := img.At(x, y).RGBA()
			rSum += float64(r >> 8)
			gSum += float64(g >> 8)
			bSum += float64(bl >> 8)
			count++
		}
	}
	if count == 0 {
		return 0, 0, 0, 0
	}
	return rSum / count, gSum / count, bSum / count, count
}

func colorfulness(img image.Image) float64 {
	b := img.Bounds()
	var rgSum, ybSum, rgSumSq, ybSumSq float64
	n := 0.0
	for y := b.Min.Y; y < b.Max.Y; y += sampleStride(b) {
		for x := b.Min.X; x < b.Max.X; x += sampleStride(b) {
			r, g, bl, _ := img.At(x, y).RGBA()
			rf, gf, bf := float64(r>>8), float64(g>>8), float64(bl>>8)
			rg := rf - gf
			yb := 0.5*(rf+gf) - bf
			rgSum += rg
			ybSum += yb
			rgSumSq += rg * rg
			ybSumSq += yb * yb
			n++
		}
	}
	if n == 0 {
		return 0
	}
	rgMean, ybMean := rgSum/n, ybSum/n
	rgStd := math.Sqrt(rgSumSq/n - rgMean*rgMean)
	ybStd := math.Sqrt(ybSumSq/n - ybMean*ybMean)
	std := math.Sqrt(rgStd*rgStd + ybStd*ybStd)
	mean := math.Sqrt(rgMean*rgMean + ybMean*ybMean)
	metric := std + 0.3*mean
	const ceiling = 100.0
	return clamp01(metric / ceiling)
}

func contrastScore(img image.Image) float64 {
	b := img.Bounds()
	var sum, sumSq float64
	n := 0.0
	for y := b.Min.Y; y < b.Max.Y; y += sampleStride(b) {
		for x := b.Min.X; x < b.Max.X; x += sampleStride(b) {
			r, g, bl, _ := img.At(x, y).RGBA()
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
			sum += lum
			sumSq += lum * lum
			n++
		}
	}
	if n == 0 {
		return 0
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	stddev := math.Sqrt(variance)
	const ceiling = 80.0
	return clamp01(stddev / ceiling)
}

// sampleStride subsamples large images so the colorfulness/contrast/
// luminance heuristics stay cheap; callers already bound source images to
// 2048px at admission time (spec §4.1 preprocessing).
func sampleStride(b image.Rectangle) int {
	area := b.Dx() * b.Dy()
	if area <= 0 {
		return 1
	}
	stride := int(math.Sqrt(float64(area)) / 256)
	if stride < 1 {
		return 1
	}
	return stride
}
