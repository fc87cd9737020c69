// Package serverrun composes a logtail server process: config, logger,
// runtime, and HTTP transport, with signal-aware shutdown.
package serverrun
