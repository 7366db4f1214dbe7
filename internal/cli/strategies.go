package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Triage/internal/scoring"
)

var strategiesJSON bool

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the weighting strategies",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles := scoring.Profiles()
		out := cmd.OutOrStdout()
		if strategiesJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(profiles)
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "STRATEGY\tLABEL\tURGENCY\tIMPORTANCE\tEFFORT")
		for _, p := range profiles {
			fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\n", p.Strategy, p.Label,
				p.Weights.Urgency, p.Weights.Importance, p.Weights.Effort)
		}
		return tw.Flush()
	},
}

func init() {
	strategiesCmd.Flags().BoolVar(&strategiesJSON, "json", false, "output JSON")
}
