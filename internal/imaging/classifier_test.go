package imaging_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restorehq/control-plane/internal/imaging"
)

func flatGrayJPEG(t *testing.T, gray uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: gray, G: gray, B: gray, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func noisyJPEG(t *testing.T, seed int64) []byte {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := uint8(r.Intn(256))
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestDegradationClassifier_ReturnsAllSevenKinds(t *testing.T) {
	c := imaging.NewDegradationClassifier()
	out, err := c.Classify(flatGrayJPEG(t, 128))
	require.NoError(t, err)

	for _, kind := range []string{
		imaging.KindBlur, imaging.KindNoise, imaging.KindLowLight,
		imaging.KindCompression, imaging.KindScratch, imaging.KindFade, imaging.KindColorShift,
	} {
		v, ok := out[kind]
		assert.True(t, ok, "missing kind %s", kind)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestDegradationClassifier_DarkImageScoresLowLightHigh(t *testing.T) {
	c := imaging.NewDegradationClassifier()
	out, err := c.Classify(flatGrayJPEG(t, 10))
	require.NoError(t, err)
	assert.Greater(t, out[imaging.KindLowLight], 0.5)
}

func TestDegradationClassifier_BrightImageScoresLowLightZero(t *testing.T) {
	c := imaging.NewDegradationClassifier()
	out, err := c.Classify(flatGrayJPEG(t, 220))
	require.NoError(t, err)
	assert.Equal(t, 0.0, out[imaging.KindLowLight])
}

func TestDegradationClassifier_NoisyImageScoresHigherNoiseThanFlat(t *testing.T) {
	c := imaging.NewDegradationClassifier()
	flat, err := c.Classify(flatGrayJPEG(t, 128))
	require.NoError(t, err)
	noisy, err := c.Classify(noisyJPEG(t, 42))
	require.NoError(t, err)

	assert.Greater(t, noisy[imaging.KindNoise], flat[imaging.KindNoise])
}

func TestDegradationClassifier_RejectsUndecodableData(t *testing.T) {
	c := imaging.NewDegradationClassifier()
	_, err := c.Classify([]byte("not an image"))
	assert.Error(t, err)
}
