package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSentiment is returned when a label is neither positive nor negative.
var ErrUnknownSentiment = errors.New("unknown sentiment label")

// Dataset column names shared by the cleaner and the scorer.
const (
	ColumnReview      = "review"
	ColumnSentiment   = "sentiment"
	ColumnLength      = "length"
	ColumnLogLength   = "log_length"
	ColumnLengthGroup = "length_group"
	ColumnSeverity    = "roberta_severity"
)

type Sentiment int

const (
	Negative Sentiment = -1
	Positive Sentiment = 1
)

func (s Sentiment) String() string {
	switch s {
	case Negative:
		return "negative"
	case Positive:
		return "positive"
	default:
		return fmt.Sprintf("Sentiment(%d)", int(s))
	}
}

// Sign returns +1 for positive and -1 for negative labels.
func (s Sentiment) Sign() float64 {
	if s == Negative {
		return -1
	}
	return 1
}

// ParseSentiment reads a dataset label, ignoring case and surrounding whitespace.
func ParseSentiment(raw string) (Sentiment, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "positive":
		return Positive, nil
	case "negative":
		return Negative, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSentiment, raw)
	}
}

type LengthGroup string

const (
	LengthShort  LengthGroup = "short"
	LengthMedium LengthGroup = "medium"
	LengthLong   LengthGroup = "long"
)

// ScoredReview is what the scorer hands to its sinks.
type ScoredReview struct {
	Index       int         `json:"index" dynamodbav:"review_index"`
	Review      string      `json:"review" dynamodbav:"review"`
	LengthGroup LengthGroup `json:"length_group,omitempty" dynamodbav:"length_group,omitempty"`
	Severity    float64     `json:"roberta_severity" dynamodbav:"roberta_severity"`
	Model       string      `json:"model" dynamodbav:"model"`
}
