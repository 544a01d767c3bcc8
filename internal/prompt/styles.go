package prompt

import "strings"

type StyleKey string

const (
	StyleSimpsons StyleKey = "simpsons"
	StyleAnime    StyleKey = "anime"
	StyleTokyo    StyleKey = "tokyo"
	StylePixar    StyleKey = "pixar"
	StyleGTA      StyleKey = "gta"

	DefaultStyle = StyleAnime
)

// transformStyles steer photo-to-style edits. The GTA entry is long because the
// short form drifts towards anime output.
var transformStyles = map[StyleKey]string{
	StyleSimpsons: "Simpsons-style cartoon portrait, flat colors, thick outlines.",
	StyleAnime:    "Anime portrait, clean lineart, vibrant colors.",
	StyleTokyo:    "Tokyo Revengers-style anime portrait, dramatic lighting.",
	StylePixar:    "3D animated film look, soft lighting, detailed shading.",
	StyleGTA: strings.Join([]string{
		"Rockstar Games / GTA V official key art illustration style (NOT anime).",
		"Clean vector-like ink lines, sharp edges, cel-shaded painting, high contrast.",
		"Cinematic warm sunset lighting, vibrant Miami/Vice City palette.",
		"Poster composition, dramatic but realistic proportions (no big anime eyes).",
		"Face and identity must match the original photo exactly.",
		"NO text, NO logos, NO game UI, NO watermarks, NO captions.",
		"Background: simplified city street with palm trees and art-deco buildings OR simple gradient if uncertain.",
	}, " "),
}

var generateStyles = map[StyleKey]string{
	StyleSimpsons: "Simpsons-style cartoon portrait, flat colors, thick outlines.",
	StyleAnime:    "Anime portrait, clean lineart, vibrant colors.",
	StyleTokyo:    "Tokyo Revengers-style anime portrait, dramatic lighting.",
	StylePixar:    "3D animated film look, soft lighting, detailed shading (Pixar-like).",
	StyleGTA:      "GTA V / Rockstar illustration style, sharp outlines, high contrast, cinematic lighting, poster-like composition.",
}

// Keys returns the preset style keys in display order.
func Keys() []StyleKey {
	return []StyleKey{StyleTokyo, StyleAnime, StyleSimpsons, StylePixar, StyleGTA}
}

// IsKnown reports whether key names a preset style.
func IsKnown(key string) bool {
	_, ok := transformStyles[StyleKey(strings.TrimSpace(key))]
	return ok
}

// ResolveTransformStyle maps free-form input onto a preset, falling back to DefaultStyle.
func ResolveTransformStyle(key string) StyleKey {
	k := StyleKey(strings.TrimSpace(key))
	if _, ok := transformStyles[k]; ok {
		return k
	}
	return DefaultStyle
}

// TransformDescription returns the description used for photo transforms.
func TransformDescription(key StyleKey) string {
	return transformStyles[ResolveTransformStyle(string(key))]
}

// GenerateDescription returns the description used for text-to-image prompts.
// Unknown keys are used verbatim.
func GenerateDescription(key StyleKey) string {
	k := StyleKey(strings.TrimSpace(string(key)))
	if desc, ok := generateStyles[k]; ok {
		return desc
	}
	return string(k)
}
