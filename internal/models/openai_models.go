package models

// ClassProbabilities is the JSON object the LLM backend is asked to return.
type ClassProbabilities struct {
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`
}

type ClassProbabilitiesResponse struct {
	Chunks []ClassProbabilities `json:"chunks"`
}
