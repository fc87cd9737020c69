package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the logtail client.
// It registers the logs, category, and stats command groups.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "logtail",
		Short: "Logtail client commands",
	}
	root.AddCommand(NewLogsCommand(baseURL))
	root.AddCommand(NewCategoryCommand(baseURL))
	root.AddCommand(NewStatsCommand(baseURL))
	return root
}
