package models

// TransformResponse is returned by POST /api/transform-gemini.
type TransformResponse struct {
	ID    string `json:"id" example:"0b6f1a52-3c43-4d8e-9f5a-1f2d3c4b5a69"`
	URL   string `json:"url" example:"https://configurator.example.com/uploads/0b6f1a52-3c43-4d8e-9f5a-1f2d3c4b5a69.png"`
	Mime  string `json:"mime" example:"image/png"`
	B64   string `json:"b64"`
	Style string `json:"style" example:"anime"`
}

// GenerateGeminiResponse is returned by POST /api/generate-gemini.
type GenerateGeminiResponse struct {
	Mime string `json:"mime" example:"image/png"`
	B64  string `json:"b64"`
}

// GenerateResponse is returned by POST /api/generate. Either field may be null
// depending on what the model produced.
type GenerateResponse struct {
	B64 *string `json:"b64"`
	URL *string `json:"url"`
}

type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Service string `json:"service" example:"fm-configurator"`
}
