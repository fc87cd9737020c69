package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCategoryCommand constructs the `category` command group and subcommands.
func NewCategoryCommand(baseURL BaseURLFunc) *cobra.Command {
	catCmd := &cobra.Command{Use: "category", Short: "Category operations"}

	defineCmd := &cobra.Command{
		Use:   "define",
		Short: "Map a namespace prefix to a category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			prefix, _ := cmd.Flags().GetString("prefix")
			name, _ := cmd.Flags().GetString("name")
			if prefix == "" || name == "" {
				return fmt.Errorf("prefix and name are required")
			}
			status, err := postJSON(cmd.Context(), baseURL()+"/v1/categories/define", map[string]string{
				"prefix":   prefix,
				"category": name,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "status:", status)
			return nil
		},
	}
	defineCmd.Flags().String("prefix", "", "Namespace prefix")
	defineCmd.Flags().String("name", "", "Category name")
	catCmd.AddCommand(defineCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List defined categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp struct {
				Categories map[string]string `json:"categories"`
			}
			if err := getJSON(cmd.Context(), baseURL()+"/v1/categories", &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	catCmd.AddCommand(listCmd)

	return catCmd
}
