package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"github.com/MikeSquared-Agency/Triage/internal/config"
	"github.com/MikeSquared-Agency/Triage/internal/hermes"
	"github.com/MikeSquared-Agency/Triage/internal/metrics"
	"github.com/MikeSquared-Agency/Triage/internal/scoring"
	"github.com/MikeSquared-Agency/Triage/internal/store"
)

const (
	maxAnalyzeBody = 1 << 20
	listPageSize   = 500
	eventTopN      = 3
)

// RankingHandler scores task collections and returns them best first.
type RankingHandler struct {
	store   store.Store
	hermes  hermes.Client
	scorer  *scoring.Scorer
	metrics *metrics.Recorder
	cfg     config.ScoringConfig
	logger  *slog.Logger
}

func NewRankingHandler(s store.Store, h hermes.Client, sc *scoring.Scorer, m *metrics.Recorder, cfg config.ScoringConfig, logger *slog.Logger) *RankingHandler {
	return &RankingHandler{store: s, hermes: h, scorer: sc, metrics: m, cfg: cfg, logger: logger}
}

func (h *RankingHandler) strategy(r *http.Request) string {
	if s := r.URL.Query().Get("strategy"); s != "" {
		return s
	}
	return h.cfg.DefaultStrategy
}

// Analyze scores a client-supplied list of task records.
// POST /api/v1/tasks/analyze?strategy=
func (h *RankingHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeLoose(http.MaxBytesReader(w, r.Body, maxAnalyzeBody))
	if err != nil {
		h.metrics.ObserveRequest("analyze", "invalid_json")
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	items, ok := payload.([]any)
	if !ok {
		h.metrics.ObserveRequest("analyze", "not_a_list")
		writeError(w, http.StatusBadRequest, "Expected a list of tasks")
		return
	}

	strategy := h.strategy(r)
	scored := make([]map[string]any, 0, len(items))
	for _, item := range items {
		task, ok := item.(map[string]any)
		if !ok {
			continue
		}
		res := h.scorer.CalculateTaskScore(task, strategy)
		h.metrics.ObserveScore(string(res.Strategy), string(res.Band), res.Score)

		enriched := maps.Clone(task)
		enriched["score"] = res.Score
		enriched["explanation"] = res.Explanation
		enriched["priority"] = res.Band
		scored = append(scored, enriched)
	}

	ranked := scoring.Rank(scored, func(m map[string]any) float64 { return m["score"].(float64) }, 0)
	h.metrics.ObserveRequest("analyze", "ok")

	event := hermes.TasksAnalyzedEvent{
		Strategy:  string(scoring.ParseStrategy(strategy)),
		Received:  len(items),
		Scored:    len(ranked),
		Timestamp: time.Now().UTC(),
	}
	for _, m := range ranked[:min(eventTopN, len(ranked))] {
		title, _ := m["title"].(string)
		event.Top = append(event.Top, hermes.RankedTask{
			Title:    title,
			Score:    m["score"].(float64),
			Priority: string(m["priority"].(scoring.Band)),
		})
	}
	hermes.PublishAsync(h.hermes, h.logger, hermes.SubjectTasksAnalyzed, event)

	writeJSON(w, http.StatusOK, ranked)
}

// Suggest scores every stored task and returns the top few.
// GET /api/v1/tasks/suggest?strategy=
func (h *RankingHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	tasks, err := listAllTasks(r, h.store)
	if err != nil {
		h.logger.Error("failed to list tasks", "error", err)
		h.metrics.ObserveRequest("suggest", "store_error")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	strategy := scoring.Strategy(h.strategy(r))
	scored := make([]scoredTask, 0, len(tasks))
	for _, t := range tasks {
		res := h.scorer.Score(taskInput(t), strategy)
		h.metrics.ObserveScore(string(res.Strategy), string(res.Band), res.Score)
		scored = append(scored, scoredTask{
			taskView:    newTaskView(t),
			Score:       res.Score,
			Explanation: res.Explanation,
			Priority:    res.Band,
		})
	}

	top := scoring.Rank(scored, func(s scoredTask) float64 { return s.Score }, h.cfg.SuggestLimit)
	h.metrics.ObserveRequest("suggest", "ok")

	event := hermes.TasksSuggestedEvent{
		Strategy:    string(scoring.ParseStrategy(string(strategy))),
		Considered:  len(tasks),
		Suggestions: make([]hermes.RankedTask, 0, len(top)),
		Timestamp:   time.Now().UTC(),
	}
	for _, s := range top {
		event.Suggestions = append(event.Suggestions, hermes.RankedTask{
			ID: s.ID.String(), Title: s.Title, Score: s.Score, Priority: string(s.Priority),
		})
	}
	hermes.PublishAsync(h.hermes, h.logger, hermes.SubjectTasksSuggested, event)

	writeJSON(w, http.StatusOK, top)
}

// Strategies lists the available weighting profiles.
// GET /api/v1/strategies
func (h *RankingHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scoring.Profiles())
}

// decodeLoose parses exactly one JSON value, keeping numbers as json.Number.
func decodeLoose(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

func listAllTasks(r *http.Request, s store.Store) ([]*store.Task, error) {
	var all []*store.Task
	for offset := 0; ; offset += listPageSize {
		page, err := s.ListTasks(r.Context(), store.TaskFilter{Limit: listPageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < listPageSize {
			return all, nil
		}
	}
}
