// Package imaging implements admission-time image preprocessing and the
// worker pipeline's degradation classifier, built on
// github.com/disintegration/imaging and golang.org/x/image for decode
// support beyond the standard library's built-in codecs.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/restorehq/control-plane/internal/domain"
)

const (
	maxLongestSide = 2048
	jpegQuality    = 85
)

// Preprocess normalizes an admitted source image: auto-orients from EXIF,
// downsizes if the longest side exceeds the bound, re-encodes as JPEG, and
// strips metadata by virtue of re-encoding through a fresh image.Image
// (spec's admission pipeline, worker-adjacent but run at ingest so the
// queue never carries an oversized or EXIF-bearing payload).
func Preprocess(data []byte) ([]byte, domain.PreprocessRecord, error) {
	src, sourceFormat, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domain.PreprocessRecord{}, fmt.Errorf("op=imaging.preprocess.decode: %w", err)
	}

	rec := domain.PreprocessRecord{ColorProfile: "srgb", SourceFormat: sourceFormat}

	oriented := imaging.AutoOrient(src)
	if !sameBounds(src, oriented) {
		rec.AutoOriented = true
		rec.Operations = append(rec.Operations, "auto_orient")
	}

	bounds := oriented.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	resized := oriented
	if w > maxLongestSide || h > maxLongestSide {
		if w >= h {
			resized = imaging.Resize(oriented, maxLongestSide, 0, imaging.Lanczos)
		} else {
			resized = imaging.Resize(oriented, 0, maxLongestSide, imaging.Lanczos)
		}
		b := resized.Bounds()
		rec.ResizedTo = [2]int{b.Dx(), b.Dy()}
		rec.Operations = append(rec.Operations, "resize")
	} else {
		rec.ResizedTo = [2]int{w, h}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, domain.PreprocessRecord{}, fmt.Errorf("op=imaging.preprocess.encode: %w", err)
	}
	rec.ReencodedJPEGQuality = jpegQuality
	rec.StrippedMetadata = true
	rec.Operations = append(rec.Operations, "reencode_jpeg", "strip_metadata")

	return buf.Bytes(), rec, nil
}

func sameBounds(a, b image.Image) bool {
	return a.Bounds() == b.Bounds()
}
