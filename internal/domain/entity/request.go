package entity

import (
	"image/color"
	"time"
)

// TaskRequest carries everything needed to generate one task. Seed drives
// every random draw of that task.
type TaskRequest struct {
	Index int
	Seed  int64
}

// PromptData parameterises prompt templates.
type PromptData struct {
	NumDots   int
	Type      ConnectionType
	DotColor  color.RGBA
	LineColor color.RGBA
	// Labels holds the number printed on each dot, in visiting order.
	// Empty means 1..NumDots.
	Labels []int
}

// FailurePolicy decides what a batch does when one task fails.
type FailurePolicy string

const (
	FailureSkip  FailurePolicy = "skip"
	FailureAbort FailurePolicy = "abort"
	FailureRetry FailurePolicy = "retry"
)

type Manifest struct {
	RunID     string         `json:"run_id"`
	Domain    string         `json:"domain"`
	CreatedAt time.Time      `json:"created_at"`
	Seed      int64          `json:"seed"`
	Config    map[string]any `json:"config"`
	TaskIDs   []string       `json:"task_ids"`
	Failed    []TaskResult   `json:"failed,omitempty"`
}

type DatasetStats struct {
	Requested int
	Generated int
	Failed    int
	Retried   int
	ByType    map[ConnectionType]int
	Elapsed   time.Duration
	TaskIDs   []string
	Failures  []TaskResult
}
