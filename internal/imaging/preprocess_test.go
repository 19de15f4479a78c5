package imaging_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restorehq/control-plane/internal/imaging"
)

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPreprocess_SmallImagePassesThroughUnresized(t *testing.T) {
	data := encodeJPEG(t, 64, 48)
	out, rec, err := imaging.Preprocess(data)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, [2]int{64, 48}, rec.ResizedTo)
	assert.Equal(t, 85, rec.ReencodedJPEGQuality)
	assert.True(t, rec.StrippedMetadata)
	assert.Contains(t, rec.Operations, "reencode_jpeg")
	assert.NotContains(t, rec.Operations, "resize")
}

func TestPreprocess_OversizedImageIsDownsized(t *testing.T) {
	data := encodeJPEG(t, 3000, 1000)
	out, rec, err := imaging.Preprocess(data)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Contains(t, rec.Operations, "resize")
	assert.LessOrEqual(t, rec.ResizedTo[0], 2048)
	assert.LessOrEqual(t, rec.ResizedTo[1], 2048)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	b := decoded.Bounds()
	assert.LessOrEqual(t, b.Dx(), 2048)
	assert.LessOrEqual(t, b.Dy(), 2048)
}

func TestPreprocess_AcceptsPNGSource(t *testing.T) {
	data := encodePNG(t, 32, 32)
	out, rec, err := imaging.Preprocess(data)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, "png", rec.SourceFormat)
}

func TestPreprocess_RejectsUndecodableData(t *testing.T) {
	_, _, err := imaging.Preprocess([]byte("not an image"))
	assert.Error(t, err)
}
