package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Triage/internal/scoring"
)

var cliToday = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

func resetScoreFlags() {
	scoreStrategy = string(scoring.StrategySmart)
	scoreToday = ""
	scoreTop = 0
	scoreJSON = false
	strategiesJSON = false
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetScoreFlags()
	t.Cleanup(resetScoreFlags)

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

const sampleTasks = `[
	{"title":"later","due_date":"2099-01-01","importance":5,"estimated_hours":3},
	{"title":"overdue","due_date":"2020-01-01","importance":5,"estimated_hours":3},
	"skip me",
	{"title":"quick","estimated_hours":0.5}
]`

func TestRankTasks(t *testing.T) {
	ranked, err := rankTasks(strings.NewReader(sampleTasks), scoring.StrategySmart, cliToday, 0)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "overdue", ranked[0]["title"])
	assert.Equal(t, 172.5, ranked[0].score())
	assert.Equal(t, "quick", ranked[1]["title"])
	assert.Equal(t, 52.5, ranked[1].score())
	assert.Equal(t, "later", ranked[2]["title"])
	assert.Equal(t, 49.0, ranked[2].score())
}

func TestRankTasksTop(t *testing.T) {
	ranked, err := rankTasks(strings.NewReader(sampleTasks), scoring.StrategySmart, cliToday, 1)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "overdue", ranked[0]["title"])
}

func TestRankTasksRejectsBadInput(t *testing.T) {
	_, err := rankTasks(strings.NewReader(`{"title":"x"}`), scoring.StrategySmart, cliToday, 0)
	assert.EqualError(t, err, "expected a list of tasks")

	_, err = rankTasks(strings.NewReader(`[`), scoring.StrategySmart, cliToday, 0)
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestScoreCommandTable(t *testing.T) {
	out, err := runCLI(t, sampleTasks, "score", "--today", "2025-06-15")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "SCORE")
	assert.Contains(t, lines[1], "172.50")
	assert.Contains(t, lines[1], "overdue")
	assert.Contains(t, lines[3], "later")
}

func TestScoreCommandJSONFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleTasks), 0o644))

	out, err := runCLI(t, "", "score", "--json", "--strategy", "deadline", "--today", "2025-06-15", "--top", "2", path)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "overdue", got[0]["title"])
	assert.Equal(t, 230.0, got[0]["score"])
	assert.Equal(t, "high", got[0]["priority"])
	assert.Contains(t, got[0]["explanation"], "Strategy: Deadline Driven")
}

func TestScoreCommandBadToday(t *testing.T) {
	_, err := runCLI(t, sampleTasks, "score", "--today", "15/06/2025")
	assert.ErrorContains(t, err, "invalid --today")
}

func TestStrategiesCommand(t *testing.T) {
	out, err := runCLI(t, "", "strategies")
	require.NoError(t, err)
	for _, name := range []string{"smart", "deadline", "fastest", "impact"} {
		assert.Contains(t, out, name)
	}

	out, err = runCLI(t, "", "strategies", "--json")
	require.NoError(t, err)
	var profiles []scoring.Profile
	require.NoError(t, json.Unmarshal([]byte(out), &profiles))
	assert.Len(t, profiles, 4)
}

func TestPrintEvent(t *testing.T) {
	var buf bytes.Buffer
	printEvent(&buf)("triage.tasks.analyzed", []byte(`{"scored":2}`))
	assert.Equal(t, "triage.tasks.analyzed {\"scored\":2}\n", buf.String())
}

type recordingSubscriber struct {
	subjects []string
	closed   bool
}

func (r *recordingSubscriber) Subscribe(subject string, _ func(string, []byte)) error {
	r.subjects = append(r.subjects, subject)
	return nil
}

func (r *recordingSubscriber) Close() { r.closed = true }

func TestWatchCommandUsesReadOnlyConnection(t *testing.T) {
	sub := &recordingSubscriber{}
	var dialedURL string
	orig := dialWatcher
	dialWatcher = func(url string, _ *slog.Logger) (eventSubscriber, error) {
		dialedURL = url
		return sub, nil
	}
	t.Cleanup(func() { dialWatcher = orig })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs([]string{"watch", "--url", "nats://bus:4222", "--subject", "triage.task.>"})
	require.NoError(t, RootCmd.ExecuteContext(ctx))

	assert.Equal(t, "nats://bus:4222", dialedURL)
	assert.Equal(t, []string{"triage.task.>"}, sub.subjects)
	assert.True(t, sub.closed)
}
