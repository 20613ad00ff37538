package model

import "time"

// BatchResult is the outcome of aggregating one file of a batch.
type BatchResult struct {
	Index    int              `json:"index"`
	Path     string           `json:"path"`
	Result   *AggregateResult `json:"result,omitempty"`
	Err      error            `json:"-"`
	Error    string           `json:"error,omitempty"`
	Duration time.Duration    `json:"duration"`
}
