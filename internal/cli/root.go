package cli

import (
	"github.com/spf13/cobra"
)

var Version = "dev"

// RootCmd is the triagectl entry point.
var RootCmd = &cobra.Command{
	Use:     "triagectl",
	Version: Version,
	Short:   "Score and rank tasks by urgency, importance and effort",
	Long: `triagectl ranks task lists with the same scorer the triage service uses.
It works offline on JSON files and can follow the service's event stream.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.AddCommand(scoreCmd)
	RootCmd.AddCommand(strategiesCmd)
	RootCmd.AddCommand(watchCmd)
}
