package models

import "encoding/json"

// AnalyzeRequest is the POST /analyze payload: the reference (approved
// master) and test (production sample) image URLs, plus optional
// per-request settings overrides merged over the server defaults.
type AnalyzeRequest struct {
	ReferenceURL string          `json:"reference_url" binding:"required,url"`
	TestURL      string          `json:"test_url" binding:"required,url"`
	Settings     json.RawMessage `json:"settings,omitempty"`
}

// ErrorResponse is the error payload shape.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
