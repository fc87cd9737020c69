package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rzbill/logtail/internal/logbuffer"
	"github.com/spf13/cobra"
)

// NewLogsCommand constructs the `logs` command group and subcommands.
func NewLogsCommand(baseURL BaseURLFunc) *cobra.Command {
	logsCmd := &cobra.Command{Use: "logs", Short: "Log operations"}

	logsCmd.AddCommand(
		newLogsSendCommand(baseURL),
		newLogsPollCommand(baseURL),
		newLogsSnapshotCommand(baseURL),
		newLogsTailCommand(baseURL),
	)

	return logsCmd
}

// newLogsSendCommand constructs the `logs send` subcommand.
func newLogsSendCommand(baseURL BaseURLFunc) *cobra.Command {
	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "Send a log entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			level, _ := cmd.Flags().GetString("level")
			ns, _ := cmd.Flags().GetString("namespace")
			msg, _ := cmd.Flags().GetString("message")
			if msg == "" {
				return fmt.Errorf("message is required")
			}
			body := map[string]string{"level": level, "message": msg}
			if ns != "" {
				body["namespace"] = ns
			}
			status, err := postJSON(cmd.Context(), baseURL()+"/v1/logs", body)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "status:", status)
			return nil
		},
	}
	sendCmd.Flags().String("level", "INFO", "Log level")
	sendCmd.Flags().StringP("namespace", "n", "", "Source namespace (resolved to a category)")
	sendCmd.Flags().StringP("message", "m", "", "Log message")
	return sendCmd
}

// newLogsPollCommand constructs the `logs poll` subcommand.
func newLogsPollCommand(baseURL BaseURLFunc) *cobra.Command {
	pollCmd := &cobra.Command{
		Use:   "poll",
		Short: "Fetch entries this client has not seen yet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientID, _ := cmd.Flags().GetString("client")
			filter, _ := cmd.Flags().GetString("filter")
			limit, _ := cmd.Flags().GetInt("limit")
			if clientID == "" {
				return fmt.Errorf("client is required")
			}

			q := url.Values{}
			q.Set("client", clientID)
			if filter != "" {
				q.Set("filter", filter)
			}
			if limit > 0 {
				q.Set("limit", fmt.Sprintf("%d", limit))
			}

			var resp struct {
				Entries []logbuffer.Entry `json:"entries"`
			}
			if err := getJSON(cmd.Context(), baseURL()+"/v1/logs/poll?"+q.Encode(), &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	pollCmd.Flags().StringP("client", "c", "", "Client id (cursor key)")
	pollCmd.Flags().String("filter", "", "CEL filter (server-side)")
	pollCmd.Flags().Int("limit", 0, "Max entries to consume per poll (0 = all unseen)")
	return pollCmd
}

// newLogsSnapshotCommand constructs the `logs snapshot` subcommand.
func newLogsSnapshotCommand(baseURL BaseURLFunc) *cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Read buffered entries without moving any cursor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			reverse, _ := cmd.Flags().GetBool("reverse")

			q := url.Values{}
			if limit > 0 {
				q.Set("limit", fmt.Sprintf("%d", limit))
			}
			if reverse {
				q.Set("reverse", "true")
			}

			var resp struct {
				Entries []logbuffer.Entry `json:"entries"`
			}
			if err := getJSON(cmd.Context(), baseURL()+"/v1/logs/snapshot?"+q.Encode(), &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	snapshotCmd.Flags().Int("limit", 100, "Max entries to return")
	snapshotCmd.Flags().Bool("reverse", false, "Read newest-to-oldest")
	return snapshotCmd
}

// newLogsTailCommand constructs the `logs tail` subcommand. It consumes the
// server's SSE stream and prints one JSON entry per line.
func newLogsTailCommand(baseURL BaseURLFunc) *cobra.Command {
	tailCmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow entries live over SSE",
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientID, _ := cmd.Flags().GetString("client")
			filter, _ := cmd.Flags().GetString("filter")
			limit, _ := cmd.Flags().GetInt("limit")
			if clientID == "" {
				return fmt.Errorf("client is required")
			}

			q := url.Values{}
			q.Set("client", clientID)
			if filter != "" {
				q.Set("filter", filter)
			}
			if limit > 0 {
				q.Set("limit", fmt.Sprintf("%d", limit))
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, baseURL()+"/v1/logs/tail?"+q.Encode(), nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer func() { _ = resp.Body.Close() }()
			if resp.StatusCode >= 300 {
				return fmt.Errorf("http error: %s", resp.Status)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			scanner := bufio.NewScanner(resp.Body)
			for scanner.Scan() {
				line := scanner.Text()
				if !strings.HasPrefix(line, "data: ") {
					continue
				}
				var e logbuffer.Entry
				if jerr := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &e); jerr != nil {
					continue
				}
				_ = enc.Encode(e)
			}
			return scanner.Err()
		},
	}
	tailCmd.Flags().StringP("client", "c", "", "Client id (cursor key)")
	tailCmd.Flags().String("filter", "", "CEL filter (server-side)")
	tailCmd.Flags().Int("limit", 0, "Stop after N entries (0 = infinite)")
	return tailCmd
}
