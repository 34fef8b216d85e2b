// Package domain defines sentiment DTOs and ports
package domain

// AnalyzeInput is the synchronous scoring request body
type AnalyzeInput struct {
	Text string `json:"text" validate:"required,min=1,max=10000"`
}

// BatchInput is the asynchronous scoring request body
type BatchInput struct {
	Texts []string `json:"texts" validate:"required,min=1,max=100,dive,required,max=10000"`
}

// AnalyzeResult is one synchronous prediction
type AnalyzeResult struct {
	Text           string  `json:"text"`
	Sentiment      string  `json:"sentiment"`
	Confidence     float64 `json:"confidence"`
	ProcessingTime float64 `json:"processing_time"`
}

// BatchAccepted acknowledges a batch submission
type BatchAccepted struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HistoryItem is one stored prediction in the caller's history
type HistoryItem struct {
	ID             int64   `json:"id"`
	Text           string  `json:"text"`
	Sentiment      string  `json:"sentiment"`
	Confidence     float64 `json:"confidence"`
	ProcessingTime float64 `json:"processing_time"`
	CreatedAt      string  `json:"created_at"`
}
