package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Triage/internal/config"
	"github.com/MikeSquared-Agency/Triage/internal/hermes"
	"github.com/MikeSquared-Agency/Triage/internal/scoring"
	"github.com/MikeSquared-Agency/Triage/internal/store"
)

type TasksHandler struct {
	store  store.Store
	hermes hermes.Client
	scorer *scoring.Scorer
	cfg    config.ScoringConfig
	logger *slog.Logger
}

func NewTasksHandler(s store.Store, h hermes.Client, sc *scoring.Scorer, cfg config.ScoringConfig, logger *slog.Logger) *TasksHandler {
	return &TasksHandler{store: s, hermes: h, scorer: sc, cfg: cfg, logger: logger}
}

// TaskRequest is the body of create and update calls. On update, nil fields
// are left unchanged and an empty due_date clears it.
type TaskRequest struct {
	Title          *string  `json:"title"`
	DueDate        *string  `json:"due_date"`
	EstimatedHours *float64 `json:"estimated_hours"`
	Importance     *int     `json:"importance"`
	Dependencies   []string `json:"dependencies"`
}

func (req *TaskRequest) apply(task *store.Task) error {
	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			task.DueDate = nil
		} else {
			d, err := time.Parse(store.DateLayout, *req.DueDate)
			if err != nil {
				return errors.New("invalid due_date: expected YYYY-MM-DD")
			}
			task.DueDate = &d
		}
	}
	if req.EstimatedHours != nil {
		task.EstimatedHours = *req.EstimatedHours
	}
	if req.Importance != nil {
		task.Importance = *req.Importance
	}
	if req.Dependencies != nil {
		deps := make([]uuid.UUID, 0, len(req.Dependencies))
		for _, raw := range req.Dependencies {
			id, err := uuid.Parse(raw)
			if err != nil {
				return errors.New("invalid dependency id: " + raw)
			}
			deps = append(deps, id)
		}
		task.Dependencies = deps
	}
	return nil
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task := &store.Task{
		EstimatedHours: scoring.DefaultEstimatedHours,
		Importance:     int(scoring.DefaultImportance),
	}
	if err := req.apply(task); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if task.Title == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}

	if err := h.store.CreateTask(r.Context(), task); err != nil {
		h.logger.Error("failed to create task", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.publishChange(hermes.SubjectTaskCreated(task.ID.String()), task)
	writeJSON(w, http.StatusCreated, newTaskView(task))
}

func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.TaskFilter{}
	if v := r.URL.Query().Get("due_before"); v != "" {
		d, err := time.Parse(store.DateLayout, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid due_before")
			return
		}
		filter.DueBefore = &d
	}

	tasks, err := h.store.ListTasks(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, newTaskView(t))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newTaskView(task))
}

func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.apply(task); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if task.Title == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}

	if err := h.store.UpdateTask(r.Context(), task); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.publishChange(hermes.SubjectTaskUpdated(task.ID.String()), task)
	writeJSON(w, http.StatusOK, newTaskView(task))
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.store.DeleteTask(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	hermes.PublishAsync(h.hermes, h.logger, hermes.SubjectTaskDeleted(id.String()), hermes.TaskChangedEvent{
		TaskID:    id.String(),
		Timestamp: time.Now().UTC(),
	})
	w.WriteHeader(http.StatusNoContent)
}

// Explain returns the full scoring breakdown for a stored task.
// GET /api/v1/tasks/{id}/explain?strategy=
func (h *TasksHandler) Explain(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	strategy := r.URL.Query().Get("strategy")
	if strategy == "" {
		strategy = h.cfg.DefaultStrategy
	}
	res := h.scorer.Score(taskInput(task), scoring.Strategy(strategy))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"task":        newTaskView(task),
		"today":       h.scorer.Today().Format(scoring.DateLayout),
		"strategy":    res.Strategy,
		"weights":     scoring.ProfileFor(res.Strategy).Weights,
		"score":       res.Score,
		"priority":    res.Band,
		"explanation": res.Explanation,
		"factors":     res.Factors,
	})
}

func (h *TasksHandler) loadTask(w http.ResponseWriter, r *http.Request) (*store.Task, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return nil, false
	}

	task, err := h.store.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return nil, false
	}
	return task, true
}

func (h *TasksHandler) publishChange(subject string, task *store.Task) {
	hermes.PublishAsync(h.hermes, h.logger, subject, hermes.TaskChangedEvent{
		TaskID:     task.ID.String(),
		Title:      task.Title,
		DueDate:    task.DueDateString(),
		Importance: task.Importance,
		Timestamp:  time.Now().UTC(),
	})
}
