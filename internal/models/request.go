package models

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Prompt any `json:"prompt" swaggertype:"string" example:"a cat wearing sunglasses"`
}

// GenerateGeminiRequest is the body of POST /api/generate-gemini.
type GenerateGeminiRequest struct {
	Prompt any `json:"prompt" swaggertype:"string" example:"portrait of a skateboarder"`
	// Style is a preset key (tokyo, anime, simpsons, pixar, gta) or free text.
	// Style and CustomPrompt accept any JSON scalar and are read as text.
	Style        any `json:"style,omitempty" swaggertype:"string" example:"pixar"`
	CustomPrompt any `json:"customPrompt,omitempty" swaggertype:"string" example:"add subtle film grain"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
