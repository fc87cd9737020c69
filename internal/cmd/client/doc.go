// Package client contains Cobra CLI commands for logtail.
package client
