package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const defaultImageMime = "image/png"

// responseSchema only pins down the fields the gateway reads.
const responseSchema = `{
  "type": "object",
  "properties": {
    "candidates": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "content": {
            "type": "object",
            "properties": {
              "parts": {
                "type": "array",
                "items": {
                  "type": "object",
                  "properties": {
                    "text": {"type": "string"},
                    "inlineData": {
                      "type": "object",
                      "properties": {
                        "mimeType": {"type": "string"},
                        "data": {"type": "string"}
                      }
                    }
                  }
                }
              }
            }
          },
          "finishReason": {"type": "string"}
        }
      }
    },
    "promptFeedback": {"type": "object"}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(responseSchema)

// Decode validates a raw generateContent response and reduces it to an Outcome.
func Decode(body []byte) (Outcome, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return Outcome{}, fmt.Errorf("%w: %s", ErrMalformedResponse, strings.Join(msgs, "; "))
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(decoded.Candidates) == 0 {
		reason := ""
		if decoded.PromptFeedback != nil {
			reason = decoded.PromptFeedback.BlockReason
		}
		return Outcome{Kind: OutcomeEmpty, Reason: reason}, nil
	}

	first := decoded.Candidates[0]
	for _, p := range first.Content.Parts {
		if p.InlineData == nil || p.InlineData.Data == "" {
			continue
		}
		mime := p.InlineData.MimeType
		if mime == "" {
			mime = defaultImageMime
		}
		return Outcome{
			Kind:  OutcomeSucceeded,
			Image: &Image{MimeType: mime, Base64: p.InlineData.Data},
		}, nil
	}

	return Outcome{Kind: OutcomeEmpty, Reason: first.FinishReason}, nil
}
