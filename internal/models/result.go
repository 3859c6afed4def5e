package models

type UploadResponse struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message"`
	Evaluation *Scorecard `json:"evaluation,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Detail  string `json:"detail,omitempty"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	Service      string `json:"service"`
	AIConfigured bool   `json:"ai_configured"`
}
