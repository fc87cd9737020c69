package client

import (
	"github.com/spf13/cobra"
)

// NewStatsCommand constructs the `stats` command.
func NewStatsCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var stats map[string]any
			if err := getJSON(cmd.Context(), baseURL()+"/v1/stats", &stats); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
}
