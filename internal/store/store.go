package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by mutating operations on a missing task.
var ErrNotFound = errors.New("task not found")

// Task is a persisted work item. DueDate is a civil date with no time part.
type Task struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	DueDate        *time.Time  `json:"-"`
	EstimatedHours float64     `json:"estimated_hours"`
	Importance     int         `json:"importance"`
	Dependencies   []uuid.UUID `json:"dependencies"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// DueDateString renders the due date as YYYY-MM-DD, or "" when unset.
func (t *Task) DueDateString() string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format(DateLayout)
}

// DateLayout is the storage and wire format for due dates.
const DateLayout = "2006-01-02"

type TaskFilter struct {
	DueBefore *time.Time
	Limit     int
	Offset    int
}

type Store interface {
	EnsureSchema(ctx context.Context) error

	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id uuid.UUID) (*Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]*Task, error)
	UpdateTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, id uuid.UUID) error

	Close() error
}

// Open connects to the backend named by driver: "postgres" or "sqlite".
func Open(ctx context.Context, driver, url string) (Store, error) {
	switch driver {
	case "", DriverPostgres:
		return NewPostgresStore(ctx, url)
	case DriverSQLite:
		return NewSQLiteStore(ctx, url)
	default:
		return nil, errors.New("unsupported database driver: " + driver)
	}
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)
