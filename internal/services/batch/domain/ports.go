// Package domain defines the batch job types and ports
package domain

import (
	"context"
	"encoding/json"
)

// TaskTypeBatchAnalysis is the stored task_type and the queue type name
const TaskTypeBatchAnalysis = "batch_sentiment_analysis"

// Job states. pending and processing are live, completed and failed are
// terminal and absorb all further transitions
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Job is the stored record of one batch submission
type Job struct {
	TaskID       string          `json:"task_id"`
	UserID       string          `json:"-"`
	TaskType     string          `json:"-"`
	Status       string          `json:"status"`
	Payload      []string        `json:"-"`
	Result       json.RawMessage `json:"result,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

// ItemResult is one scored text inside a completed job result
type ItemResult struct {
	Text       string  `json:"text"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// Dispatch is the queue message; it carries only the task id, the job
// row in postgres stays the state of record
type Dispatch struct {
	TaskID string `json:"task_id"`
}

// SubmitPort enqueues batch jobs for processing
type SubmitPort interface {
	// Submit persists a pending job, commits, then enqueues the dispatch
	// message and returns the fresh task id
	Submit(ctx context.Context, userID string, texts []string) (taskID string, err error)
}

// QueryPort reads jobs on behalf of their owner.
// Unknown ids and other users' jobs are indistinguishable
type QueryPort interface {
	Owned(ctx context.Context, userID, taskID string) (Job, error)
}

// HandlerPort consumes dispatch messages on the worker
type HandlerPort interface {
	HandleDispatch(ctx context.Context, payload []byte) error
}

// Scorer is the classification seam the worker drives
type Scorer interface {
	Analyze(text string) (sentiment string, confidence float64)
}
