package gemini

import (
	"encoding/base64"
	"fmt"
)

// ImageRequest is a single generateContent call. Image is optional; when set it
// is sent as an inline part after the prompt text.
type ImageRequest struct {
	Model    string
	Prompt   string
	Image    []byte
	MimeType string
}

// Image is the first inline image found in the provider response.
type Image struct {
	MimeType string
	Base64   string
}

func (i *Image) Bytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(i.Base64)
	if err != nil {
		return nil, fmt.Errorf("decode inline image: %w", err)
	}
	return data, nil
}

type OutcomeKind int

const (
	OutcomeEmpty OutcomeKind = iota
	OutcomeSucceeded
)

// Outcome is the decoded provider payload: either an image or an explicit
// "nothing produced" result with whatever reason the provider gave.
type Outcome struct {
	Kind   OutcomeKind
	Image  *Image
	Reason string
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string `json:"text,omitempty"`
	InlineData *blob  `json:"inlineData,omitempty"`
}

type blob struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type generateContentResponse struct {
	Candidates     []candidate     `json:"candidates"`
	PromptFeedback *promptFeedback `json:"promptFeedback,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type promptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}
