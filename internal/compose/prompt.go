package compose

import (
	"fmt"
	"strings"
)

const (
	lightingInstruction = "Analyze the lighting in this scene photograph. Describe the main light direction, " +
		"color temperature, intensity and how shadows fall, in one dense paragraph. Respond with the description only."

	locationInstruction = "A red circle with a white outline marks a spot in this image. Describe that spot densely: " +
		"what object or surface is there, its material, and its position relative to the nearby objects in the scene. " +
		"Respond with the description only."

	// Fixed fallbacks used when an analysis call fails. Deterministic, never retried.
	fallbackLighting = "The scene has soft, even ambient lighting with neutral color temperature."
	fallbackLocation = "the exact spot marked by the red circle in the scene"
)

// Shadow intensity buckets. Boundaries carried over from the original UI
// controls; kept as constants rather than re-derived.
const (
	shadowVeryFaintMax = 10
	shadowSubtleMax    = 35
	shadowNormalMax    = 65
	shadowStrongMax    = 85
)

// ShadowDescriptor maps a 0-100 intensity onto one of five fixed qualitative
// descriptors. Total on the whole range; values above 100 fall into the
// darkest bucket.
func ShadowDescriptor(intensity int) string {
	switch {
	case intensity <= shadowVeryFaintMax:
		return "very faint and barely visible"
	case intensity <= shadowSubtleMax:
		return "subtle and soft"
	case intensity <= shadowNormalMax:
		return "normal and realistic"
	case intensity <= shadowStrongMax:
		return "strong and well-defined"
	default:
		return "very dark and dramatic"
	}
}

// BuildCompositePrompt assembles the synthesis instruction from the two
// upstream descriptions, the shadow intensity and the optional user override.
// Pure string assembly; the descriptions are interpolated verbatim.
func BuildCompositePrompt(location, lighting string, shadowIntensity int, instructions string) string {
	parts := []string{
		"You are given two images. The FIRST image is a product photo and the SECOND image is a scene photo.",
		fmt.Sprintf("Place the product from the first image into the scene at the following location: %s.", location),
		fmt.Sprintf("Match the scene lighting: %s", sentence(lighting)),
		fmt.Sprintf("Render the product with a shadow that is %s, consistent with that lighting.", ShadowDescriptor(shadowIntensity)),
		"Blend perspective, scale and color grading so the result looks like a single photograph.",
		"Do not alter any other part of the scene.",
	}
	if override := strings.TrimSpace(instructions); override != "" {
		parts = append(parts, fmt.Sprintf("User override, takes precedence over the defaults above: %s.", override))
	}
	parts = append(parts, "Output only the final image, no text.")
	return strings.Join(parts, " ")
}

// BuildRotationPrompt assembles the instruction for re-rendering a product from
// a different implied camera angle.
func BuildRotationPrompt(view string) string {
	parts := []string{
		fmt.Sprintf("Re-render the product in this image from %s.", strings.TrimSpace(view)),
		"Preserve the product's identity, colors, textures and proportions exactly.",
		"Place it centered on a neutral light-gray background with soft studio lighting.",
		"Output only the image, no text.",
	}
	return strings.Join(parts, " ")
}

// sentence makes sure interpolated free text reads as a full sentence.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "!") && !strings.HasSuffix(s, "?") {
		s += "."
	}
	return s
}
