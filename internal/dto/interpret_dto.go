package dto

type InterpretRequest struct {
	Input   string `json:"input" validate:"required"`
	Tone    string `json:"tone" validate:"omitempty,oneof=insightful supportive analytical creative direct"`
	Style   string `json:"style" validate:"omitempty,oneof=concise detailed bullet_points narrative"`
	Context string `json:"context"`
}

type InterpretResponse struct {
	Interpretation string `json:"interpretation"`
	Tone           string `json:"tone"`
	Style          string `json:"style"`
}
