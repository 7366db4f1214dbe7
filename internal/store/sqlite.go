package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps tasks in a single SQLite file, for local use and tests.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens path with the pure Go driver. ":memory:" is accepted.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		path = "triage.db"
	}
	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&"
	} else {
		dsn += "?"
	}
	dsn += "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateTask(ctx context.Context, task *Task) error {
	deps, err := encodeDeps(task.Dependencies)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	id := uuid.New()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO triage_tasks (id, title, due_date, estimated_hours, importance, dependencies, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), task.Title, sqliteDate(task.DueDate), task.EstimatedHours, task.Importance, deps,
		now.Format(timestampLayout), now.Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	task.ID = id
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Dependencies == nil {
		task.Dependencies = []uuid.UUID{}
	}
	return nil
}

func (s *SQLiteStore) GetTask(ctx context.Context, id uuid.UUID) (*Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM triage_tasks WHERE id = ?`, id.String())
	t, err := scanSQLiteTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *SQLiteStore) ListTasks(ctx context.Context, filter TaskFilter) ([]*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM triage_tasks WHERE 1=1`
	args := []interface{}{}

	if filter.DueBefore != nil {
		query += " AND due_date IS NOT NULL AND due_date < ?"
		args = append(args, filter.DueBefore.Format(DateLayout))
	}

	query += " ORDER BY created_at ASC, rowid ASC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += " LIMIT ?"
	args = append(args, limit)
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		t, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *SQLiteStore) UpdateTask(ctx context.Context, task *Task) error {
	deps, err := encodeDeps(task.Dependencies)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE triage_tasks
		SET title = ?, due_date = ?, estimated_hours = ?, importance = ?, dependencies = ?, updated_at = ?
		WHERE id = ?`,
		task.Title, sqliteDate(task.DueDate), task.EstimatedHours, task.Importance, deps,
		now.Format(timestampLayout), task.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	task.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM triage_tasks WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// fixed width so text ordering matches time ordering
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteTask(row rowScanner) (*Task, error) {
	t := &Task{}
	var id, deps, created, updated string
	var due sql.NullString
	if err := row.Scan(&id, &t.Title, &due, &t.EstimatedHours, &t.Importance, &deps, &created, &updated); err != nil {
		return nil, err
	}

	var err error
	if t.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse task id: %w", err)
	}
	if due.Valid {
		if d, err := time.Parse(DateLayout, due.String); err == nil {
			t.DueDate = &d
		}
	}
	if err := json.Unmarshal([]byte(deps), &t.Dependencies); err != nil {
		return nil, fmt.Errorf("decode dependencies: %w", err)
	}
	t.CreatedAt, _ = time.Parse(timestampLayout, created)
	t.UpdatedAt, _ = time.Parse(timestampLayout, updated)
	return t, nil
}

func encodeDeps(deps []uuid.UUID) (string, error) {
	if deps == nil {
		deps = []uuid.UUID{}
	}
	b, err := json.Marshal(deps)
	if err != nil {
		return "", fmt.Errorf("encode dependencies: %w", err)
	}
	return string(b), nil
}

func sqliteDate(d *time.Time) any {
	if d == nil {
		return nil
	}
	return d.Format(DateLayout)
}
