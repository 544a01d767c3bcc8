package prompt

import (
	"fmt"
	"strings"
)

type Mode int

const (
	ModeTransform Mode = iota
	ModeGenerate
)

const (
	preserveIdentity = "Keep the same identity, face features, hairstyle and pose. Do not change clothing unless requested. "
	hardRules        = "Hard rules: NO text, NO UI/HUD, NO borders, NO watermarks, NO logos."
)

// Request carries the inputs for a single prompt composition.
type Request struct {
	Mode   Mode
	Style  StyleKey
	Task   string // generate mode only
	Custom string
}

// Compose builds the final instruction sent to the image provider.
func Compose(req Request) string {
	if req.Mode == ModeGenerate {
		return composeGenerate(req)
	}
	return composeTransform(req)
}

func composeTransform(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Transform the person in the input photo into this style: %s. ", TransformDescription(req.Style))
	b.WriteString(preserveIdentity)
	b.WriteString("Output: a single image only. ")
	b.WriteString(hardRules)
	b.WriteString(" ")
	if custom := strings.TrimSpace(req.Custom); custom != "" {
		b.WriteString("Additional instructions: ")
		b.WriteString(custom)
	}
	return b.String()
}

func composeGenerate(req Request) string {
	var b strings.Builder
	if style := strings.TrimSpace(string(req.Style)); style != "" {
		fmt.Fprintf(&b, "Style: %s\n", GenerateDescription(StyleKey(style)))
	}
	fmt.Fprintf(&b, "Task: %s\n", strings.TrimSpace(req.Task))
	b.WriteString(hardRules)
	b.WriteString("\n")
	if custom := strings.TrimSpace(req.Custom); custom != "" {
		fmt.Fprintf(&b, "Additional instructions: %s\n", custom)
	}
	b.WriteString("Output: a single image.")
	return b.String()
}
