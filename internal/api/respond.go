package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Triage/internal/scoring"
	"github.com/MikeSquared-Agency/Triage/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode response", "status", status, "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"response could not be encoded"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// taskView is the wire form of a stored task.
type taskView struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	DueDate        *string     `json:"due_date"`
	EstimatedHours float64     `json:"estimated_hours"`
	Importance     int         `json:"importance"`
	Dependencies   []uuid.UUID `json:"dependencies"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func newTaskView(t *store.Task) taskView {
	v := taskView{
		ID:             t.ID,
		Title:          t.Title,
		EstimatedHours: t.EstimatedHours,
		Importance:     t.Importance,
		Dependencies:   t.Dependencies,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if v.Dependencies == nil {
		v.Dependencies = []uuid.UUID{}
	}
	if t.DueDate != nil {
		s := t.DueDateString()
		v.DueDate = &s
	}
	return v
}

// scoredTask is a stored task with its score merged in.
type scoredTask struct {
	taskView
	Score       float64      `json:"score"`
	Explanation string       `json:"explanation"`
	Priority    scoring.Band `json:"priority"`
}

// taskInput maps a stored task onto scorer input. Stored tasks always carry
// importance and hours, so only the due date can be absent.
func taskInput(t *store.Task) scoring.Input {
	importance := float64(t.Importance)
	hours := t.EstimatedHours
	return scoring.Input{
		DueDate:        t.DueDate,
		Importance:     &importance,
		EstimatedHours: &hours,
	}
}
