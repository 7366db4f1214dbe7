package hermes

import "time"

// RankedTask is the summary of one scored task carried in ranking events.
type RankedTask struct {
	ID       string  `json:"id,omitempty"`
	Title    string  `json:"title,omitempty"`
	Score    float64 `json:"score"`
	Priority string  `json:"priority"`
}

type TasksAnalyzedEvent struct {
	Strategy  string       `json:"strategy"`
	Received  int          `json:"received"`
	Scored    int          `json:"scored"`
	Top       []RankedTask `json:"top,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

type TasksSuggestedEvent struct {
	Strategy    string       `json:"strategy"`
	Considered  int          `json:"considered"`
	Suggestions []RankedTask `json:"suggestions"`
	Timestamp   time.Time    `json:"timestamp"`
}

type TaskChangedEvent struct {
	TaskID     string    `json:"task_id"`
	Title      string    `json:"title,omitempty"`
	DueDate    string    `json:"due_date,omitempty"`
	Importance int       `json:"importance,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
