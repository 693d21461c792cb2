// Package cli implements the wfstage command line interface. The
// validate and normalize commands run the engine locally; the rest talk
// to a wfstage server.
package cli

import (
	"log/slog"
	"os"

	"github.com/me/wfstage/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagServer    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	client *Client
)

// defaultServer returns the default server URL, checking WFSTAGE_SERVER env var first.
func defaultServer() string {
	if s := os.Getenv("WFSTAGE_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// NewRootCmd creates the root cobra command for the wfstage CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wfstage",
		Short: "wfstage — validate and register workflow stage definitions",
		Long:  "wfstage validates, normalizes and registers stage definitions for scientific workflow invocations.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.New(logging.ParseLevel(flagLogLevel), flagLogFormat)
			client = NewClient(flagServer, logger)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "wfstage server URL (or WFSTAGE_SERVER env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newValidateCmd(),
		newNormalizeCmd(),
		newSubmitCmd(),
		newListCmd(),
		newGetCmd(),
		newRmCmd(),
	)

	return root
}
