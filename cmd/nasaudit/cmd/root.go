package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"nasaudit/internal/config"
)

// Exit statuses shared by every subcommand.
const (
	exitOK      = 0
	exitAborted = 1
	exitErrors  = 2
)

var (
	configPath string
	verbose    bool
	cfg        *config.Config
	logger     = logrus.New()
)

// exitError carries a specific exit status out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func aborted(err error) error {
	return &exitError{code: exitAborted, err: err}
}

var rootCmd = &cobra.Command{
	Use:   "nasaudit",
	Short: "Audit a storage inventory and curate bulk deletions",
	Long: `nasaudit turns a flat storage inventory (CSV export of a NAS scan) into a
hierarchical index with size/count rollups and duplicate detection, and
removes operator-selected files under strict safety checks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		logger.SetOutput(os.Stderr)
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}

		c, err := config.LoadConfig(configPath)
		if err != nil {
			return aborted(fmt.Errorf("failed to load config: %w", err))
		}
		if err := c.ApplyEnv(); err != nil {
			return aborted(err)
		}
		cfg = c

		logger.WithField("config", configPath).Debug("configuration loaded")
		return nil
	},
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return exitAborted
}

func init() {
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")
}
