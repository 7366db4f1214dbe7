package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Triage/internal/scoring"
)

var (
	scoreStrategy string
	scoreToday    string
	scoreTop      int
	scoreJSON     bool
)

var scoreCmd = &cobra.Command{
	Use:   "score [file]",
	Short: "Rank a JSON list of tasks",
	Long: `Score every task in a JSON array and print them best first.

Each task may carry due_date (YYYY-MM-DD), importance and estimated_hours.
Missing or malformed fields take the scorer defaults. Reads stdin when no
file is given or the file is "-".

Examples:
  triagectl score tasks.json
  triagectl score --strategy deadline --top 3 tasks.json
  cat tasks.json | triagectl score --today 2025-06-15 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScoreCmd,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreStrategy, "strategy", "s", string(scoring.StrategySmart), "smart, deadline, fastest or impact")
	scoreCmd.Flags().StringVar(&scoreToday, "today", "", "reference date (YYYY-MM-DD), defaults to the current date")
	scoreCmd.Flags().IntVarP(&scoreTop, "top", "n", 0, "only print the N best tasks")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "output JSON")
}

// scoredRecord is an input task with its score merged in.
type scoredRecord map[string]any

func (r scoredRecord) score() float64 { return r["score"].(float64) }

func runScoreCmd(cmd *cobra.Command, args []string) error {
	today := time.Now()
	if scoreToday != "" {
		t, err := time.Parse(scoring.DateLayout, scoreToday)
		if err != nil {
			return fmt.Errorf("invalid --today format, use YYYY-MM-DD: %w", err)
		}
		today = t
	}

	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open task file: %w", err)
		}
		defer f.Close()
		in = f
	}

	ranked, err := rankTasks(in, scoring.Strategy(scoreStrategy), today, scoreTop)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if scoreJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ranked)
	}
	return printRanked(out, ranked)
}

// rankTasks decodes a JSON array of task records, scores each object and
// returns them best first. Non-object elements are skipped.
func rankTasks(r io.Reader, strategy scoring.Strategy, today time.Time, top int) ([]scoredRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	items, ok := payload.([]any)
	if !ok {
		return nil, errors.New("expected a list of tasks")
	}

	scored := make([]scoredRecord, 0, len(items))
	for _, item := range items {
		task, ok := item.(map[string]any)
		if !ok {
			continue
		}
		res := scoring.ScoreAt(scoring.InputFromMap(task), strategy, today)
		task["score"] = res.Score
		task["explanation"] = res.Explanation
		task["priority"] = res.Band
		scored = append(scored, scoredRecord(task))
	}
	return scoring.Rank(scored, scoredRecord.score, top), nil
}

func printRanked(w io.Writer, ranked []scoredRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSCORE\tPRIORITY\tDUE\tTITLE")
	for i, r := range ranked {
		title, _ := r["title"].(string)
		if title == "" {
			title = "(untitled)"
		}
		due, _ := r["due_date"].(string)
		if due == "" {
			due = "-"
		}
		fmt.Fprintf(tw, "%d\t%.2f\t%s\t%s\t%s\n", i+1, r.score(), r["priority"], due, title)
	}
	return tw.Flush()
}
