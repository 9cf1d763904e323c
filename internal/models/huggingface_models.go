package models

// PredictRequest is the body of a sequence-classification /predict call.
type PredictRequest struct {
	Inputs    []string `json:"inputs"`
	RawScores bool     `json:"raw_scores"`
	Truncate  bool     `json:"truncate"`
}

type (
	// PredictResponse holds one entry per input, each listing every class.
	PredictResponse []PredictLabels
	PredictLabels   []PredictLabel
	PredictLabel    struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
)
