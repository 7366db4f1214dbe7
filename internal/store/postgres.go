package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const taskColumns = `id, title, due_date, estimated_hours, importance, dependencies, created_at, updated_at`

func (s *PostgresStore) CreateTask(ctx context.Context, task *Task) error {
	if task.Dependencies == nil {
		task.Dependencies = []uuid.UUID{}
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO triage_tasks (title, due_date, estimated_hours, importance, dependencies)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		task.Title, pgDate(task.DueDate), task.EstimatedHours, task.Importance, task.Dependencies,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (s *PostgresStore) GetTask(ctx context.Context, id uuid.UUID) (*Task, error) {
	t, err := scanTask(s.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM triage_tasks WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *PostgresStore) ListTasks(ctx context.Context, filter TaskFilter) ([]*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM triage_tasks WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.DueBefore != nil {
		n++
		query += fmt.Sprintf(" AND due_date < $%d", n)
		args = append(args, pgDate(filter.DueBefore))
	}

	query += " ORDER BY created_at ASC, id ASC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *PostgresStore) UpdateTask(ctx context.Context, task *Task) error {
	if task.Dependencies == nil {
		task.Dependencies = []uuid.UUID{}
	}
	err := s.pool.QueryRow(ctx, `
		UPDATE triage_tasks
		SET title = $2, due_date = $3, estimated_hours = $4, importance = $5,
			dependencies = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		task.ID, task.Title, pgDate(task.DueDate), task.EstimatedHours, task.Importance, task.Dependencies,
	).Scan(&task.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *PostgresStore) DeleteTask(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM triage_tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*Task, error) {
	t := &Task{}
	var due pgtype.Date
	err := row.Scan(
		&t.ID, &t.Title, &due, &t.EstimatedHours, &t.Importance, &t.Dependencies,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	return t, nil
}

func pgDate(d *time.Time) pgtype.Date {
	if d == nil {
		return pgtype.Date{}
	}
	y, m, day := d.Date()
	return pgtype.Date{Time: time.Date(y, m, day, 0, 0, 0, 0, time.UTC), Valid: true}
}
