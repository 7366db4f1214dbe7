package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Triage/internal/hermes"
)

var (
	watchURL     string
	watchSubject string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow triage events from NATS",
	Long: `Print every event the triage service publishes until interrupted.

Examples:
  triagectl watch
  triagectl watch --subject 'triage.task.>' --url nats://nats:4222`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
		client, err := dialWatcher(watchURL, logger)
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Subscribe(watchSubject, printEvent(cmd.OutOrStdout())); err != nil {
			return fmt.Errorf("subscribe %s: %w", watchSubject, err)
		}
		logger.Info("watching", "subject", watchSubject, "url", watchURL)

		<-ctx.Done()
		return nil
	},
}

// eventSubscriber is the read side of the event bus.
type eventSubscriber interface {
	Subscribe(subject string, handler func(subject string, data []byte)) error
	Close()
}

// dialWatcher connects without touching the service's stream configuration.
var dialWatcher = func(url string, logger *slog.Logger) (eventSubscriber, error) {
	return hermes.NewNATSSubscriber(url, logger)
}

func init() {
	url := os.Getenv("TRIAGE_HERMES_URL")
	if url == "" {
		url = "nats://localhost:4222"
	}
	watchCmd.Flags().StringVar(&watchURL, "url", url, "NATS server URL")
	watchCmd.Flags().StringVar(&watchSubject, "subject", "triage.>", "subject filter")
}

func printEvent(w io.Writer) func(string, []byte) {
	return func(subject string, data []byte) {
		fmt.Fprintf(w, "%s %s\n", subject, data)
	}
}
