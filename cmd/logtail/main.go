package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	clientcmd "github.com/rzbill/logtail/internal/cmd/client"
	serverrun "github.com/rzbill/logtail/internal/cmd/server"
	cfgpkg "github.com/rzbill/logtail/internal/config"
	logpkg "github.com/rzbill/logtail/pkg/log"
	"github.com/spf13/cobra"
)

func main() {
	// initialize logger for CLI
	// Respect LOGTAIL_LOG_LEVEL for both CLI and server start output
	level := os.Getenv("LOGTAIL_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)
	logpkg.RedirectStdLog(logger)

	// client command groups come from internal/cmd/client
	rootCmd := clientcmd.NewRoot(apiURL)
	rootCmd.Short = "Logtail runtime CLI"
	rootCmd.Long = "Logtail is a single-binary bounded log buffer. This CLI manages the server and basic operations."

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start logtail server (HTTP + SSE)",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			httpAddr, _ := cmd.Flags().GetString("http")
			capacity, _ := cmd.Flags().GetInt("capacity")
			cursorTTLMs, _ := cmd.Flags().GetInt64("cursor-ttl-ms")
			clientRate, _ := cmd.Flags().GetFloat64("client-rate")
			clientBurst, _ := cmd.Flags().GetInt("client-burst")
			selfLog, _ := cmd.Flags().GetBool("self-log")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")

			if logLevel != "" {
				_ = os.Setenv("LOGTAIL_LOG_LEVEL", logLevel)
			}
			if logFormat != "" {
				_ = os.Setenv("LOGTAIL_LOG_FORMAT", logFormat)
			}

			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return err
			}
			cfgpkg.FromEnv(&cfg)
			if capacity > 0 {
				cfg.Capacity = capacity
			}
			if cmd.Flags().Changed("cursor-ttl-ms") {
				cfg.CursorTTLMs = cursorTTLMs
			}
			if clientRate > 0 {
				cfg.ClientRatePerSec = clientRate
			}
			if clientBurst > 0 {
				cfg.ClientRateBurst = clientBurst
			}
			if selfLog {
				cfg.SelfLog = true
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := serverrun.Run(ctx, serverrun.Options{
				HTTPAddr: httpAddr,
				Config:   cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	serverStartCmd.Flags().String("config", "", "Config file path (JSON)")
	serverStartCmd.Flags().String("http", ":8080", "HTTP listen address")
	serverStartCmd.Flags().Int("capacity", 0, "Max buffered entries (default 1024)")
	serverStartCmd.Flags().Int64("cursor-ttl-ms", 0, "Idle client cursor expiry in ms (0 = never)")
	serverStartCmd.Flags().Float64("client-rate", 0, "Max polls per second per client (0 = unlimited)")
	serverStartCmd.Flags().Int("client-burst", 0, "Poll burst allowance per client")
	serverStartCmd.Flags().Bool("self-log", false, "Feed the server's own logs into the store")
	serverStartCmd.Flags().String("log-level", os.Getenv("LOGTAIL_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("LOGTAIL_LOG_FORMAT"), "Log format: text|json (default text)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("LOGTAIL_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
