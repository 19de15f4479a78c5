package imaging_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/restorehq/control-plane/internal/imaging"
)

func TestRestorationPromptEnhancer_NoDegradationNoPrompt(t *testing.T) {
	e := imaging.NewRestorationPromptEnhancer()
	out := e.Enhance(map[string]float64{imaging.KindBlur: 0.1}, "")
	assert.Equal(t, "No significant degradation detected; apply only subtle enhancement.", out)
}

func TestRestorationPromptEnhancer_SelectsDominantKindsOnly(t *testing.T) {
	e := imaging.NewRestorationPromptEnhancer()
	out := e.Enhance(map[string]float64{
		imaging.KindBlur:        0.9,
		imaging.KindNoise:       0.8,
		imaging.KindLowLight:    0.6,
		imaging.KindCompression: 0.5,
		imaging.KindScratch:     0.1, // below threshold, excluded
	}, "")

	assert.Contains(t, out, "aggressively deblur")
	assert.Contains(t, out, "heavily denoise")
	assert.NotContains(t, out, "scratches")
}

func TestRestorationPromptEnhancer_IncludesUserPromptAndSeverityHint(t *testing.T) {
	e := imaging.NewRestorationPromptEnhancer()
	out := e.Enhance(map[string]float64{imaging.KindFade: 0.95}, "make grandma smile")

	assert.Contains(t, out, "User request: make grandma smile.")
	assert.Contains(t, out, "significant damage")
	assert.Contains(t, out, "Preserve the subject's identity")
}

func TestRestorationPromptEnhancer_TruncatesToMaxLength(t *testing.T) {
	e := imaging.NewRestorationPromptEnhancer()
	out := e.Enhance(map[string]float64{imaging.KindBlur: 0.95}, strings.Repeat("x", 2000))

	assert.LessOrEqual(t, len(out), 1000)
	assert.True(t, strings.HasSuffix(out, "..."))
}
