package imaging

import (
	"fmt"
	"sort"
	"strings"
)

const (
	selectionThreshold = 0.3
	maxSelectedKinds   = 3
	highSeverity       = 0.7
	mediumSeverity     = 0.5
	maxPromptLength    = 1000
	truncatedLength    = 950
)

// technicalFragments maps each degradation kind to its severity-tiered
// instruction fragment (spec §4.7.2). Buckets: low (<0.5), medium (<0.7),
// high (>=0.7).
var technicalFragments = map[string][3]string{
	KindBlur: {
		"sharpen slightly softened detail",
		"correct moderate blur and recover edge detail",
		"aggressively deblur and reconstruct fine detail lost to heavy blur",
	},
	KindNoise: {
		"reduce light sensor noise",
		"denoise while preserving texture",
		"heavily denoise and rebuild texture destroyed by noise",
	},
	KindLowLight: {
		"lift shadows slightly",
		"brighten underexposed regions and recover midtone detail",
		"substantially brighten a very dark image and recover crushed shadow detail",
	},
	KindCompression: {
		"smooth minor compression artifacts",
		"remove visible JPEG blocking and ringing artifacts",
		"reconstruct detail destroyed by heavy compression artifacting",
	},
	KindScratch: {
		"remove faint surface scratches",
		"repair visible scratches and dust marks",
		"repair extensive scratches, tears, and surface damage",
	},
	KindFade: {
		"restore slightly faded color",
		"restore faded color saturation and contrast",
		"restore severely faded, washed-out color and contrast",
	},
	KindColorShift: {
		"correct a slight color cast",
		"correct a noticeable color cast back to neutral",
		"correct a strong color cast and restore natural color balance",
	},
}

const qualityGuidance = "Preserve the subject's identity and the original composition; do not invent new content."
const severityHint = "This image has significant damage; prioritize structural repair over stylistic changes."
const subtleOnlyMessage = "No significant degradation detected; apply only subtle enhancement."

type scoredKind struct {
	kind  string
	score float64
}

// RestorationPromptEnhancer implements worker.PromptEnhancer.
type RestorationPromptEnhancer struct{}

// NewRestorationPromptEnhancer constructs a RestorationPromptEnhancer. It
// has no state: Enhance is a pure function of its arguments.
func NewRestorationPromptEnhancer() *RestorationPromptEnhancer { return &RestorationPromptEnhancer{} }

// Enhance implements worker.PromptEnhancer per spec §4.7.2: select the
// dominant degradation kinds, compose a fragment per kind, layer in the
// caller's own prompt, and bound the result to 1000 characters.
func (e *RestorationPromptEnhancer) Enhance(classification map[string]float64, userPrompt string) string {
	var selected []scoredKind
	for kind, score := range classification {
		if score > selectionThreshold {
			selected = append(selected, scoredKind{kind: kind, score: score})
		}
	}
	sort.Slice(selected, func(i, j int) bool {
		if selected[i].score != selected[j].score {
			return selected[i].score > selected[j].score
		}
		return selected[i].kind < selected[j].kind // stable tiebreak
	})
	if len(selected) > maxSelectedKinds {
		selected = selected[:maxSelectedKinds]
	}

	trimmedPrompt := strings.TrimSpace(userPrompt)
	if len(selected) == 0 && trimmedPrompt == "" {
		return subtleOnlyMessage
	}

	var fragments []string
	hasHigh := false
	for _, sk := range selected {
		fragments = append(fragments, fragmentFor(sk.kind, sk.score))
		if sk.score >= highSeverity {
			hasHigh = true
		}
	}

	var b strings.Builder
	if trimmedPrompt != "" {
		fmt.Fprintf(&b, "User request: %s.", trimmedPrompt)
	}
	if len(fragments) > 0 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "Technical restoration: %s.", strings.Join(fragments, "; "))
	}
	if b.Len() > 0 {
		b.WriteString(" ")
	}
	b.WriteString(qualityGuidance)
	if hasHigh {
		b.WriteString(" ")
		b.WriteString(severityHint)
	}

	out := b.String()
	if len(out) > maxPromptLength {
		out = out[:truncatedLength] + "..."
	}
	return out
}

func fragmentFor(kind string, score float64) string {
	tiers, ok := technicalFragments[kind]
	if !ok {
		return kind
	}
	switch {
	case score >= highSeverity:
		return tiers[2]
	case score >= mediumSeverity:
		return tiers[1]
	default:
		return tiers[0]
	}
}
