package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"nasaudit/internal/confirm"
	"nasaudit/internal/deleter"
	"nasaudit/internal/record"
)

var (
	deleteForce   bool
	deleteRoot    string
	deleteLog     string
	deleteWorkers int
)

// askConfirm is replaced in tests.
var askConfirm = confirm.Ask

var deleteCmd = &cobra.Command{
	Use:   "delete <selection.json>",
	Short: "Delete the files listed in a selection",
	Long: `Delete every file listed in a selection (a JSON array of paths).

The default is a dry run: every check is performed and reported, nothing is
removed. --force removes files after an interactive confirmation.

Only regular files are removed. Symlinks are refused, directories are
skipped, and with --root anything resolving outside the root is refused.
Every outcome is appended to the audit log.

Exit status: 0 no errors, 2 at least one error, 1 aborted before processing.

Examples:
  nasaudit delete selection.json
  nasaudit delete selection.json --root /volume1/share --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return aborted(fmt.Errorf("failed to open selection: %w", err))
		}
		paths, err := record.LoadSelection(f)
		f.Close()
		if err != nil {
			return aborted(fmt.Errorf("failed to read selection: %w", err))
		}

		root := cfg.Delete.Root
		if cmd.Flags().Changed("root") {
			root = deleteRoot
		}
		logPath := cfg.Delete.LogFile
		if cmd.Flags().Changed("log") {
			logPath = deleteLog
		}
		workers := cfg.Delete.Workers
		if cmd.Flags().Changed("workers") {
			workers = deleteWorkers
		}

		if root != "" {
			if _, err := deleter.NewScope(root); err != nil {
				return aborted(err)
			}
		}

		out := cmd.OutOrStdout()
		dryRun := !deleteForce
		if !dryRun {
			question := fmt.Sprintf("You are NOT in dry-run mode. Delete up to %d files? (yes/N)", len(paths))
			ok, err := askConfirm(cmd.InOrStdin(), out, question)
			if err != nil {
				return aborted(err)
			}
			if !ok {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
		}

		audit, err := deleter.OpenAuditLog(logPath)
		if err != nil {
			return aborted(err)
		}
		defer audit.Close()

		d, err := deleter.New(deleter.Options{
			Root:      root,
			DryRun:    dryRun,
			Workers:   workers,
			Audit:     audit,
			OnOutcome: outcomePrinter(out),
			Logger:    logger,
		})
		if err != nil {
			return aborted(err)
		}

		fmt.Fprintf(out, "\n=== Deletion started at %s (dry_run=%v) ===\n\n", time.Now().Format("2006-01-02 15:04:05"), dryRun)

		report, runErr := d.Run(cmd.Context(), paths)
		if report == nil {
			return aborted(runErr)
		}
		if runErr != nil {
			logger.WithError(runErr).Error("audit log is incomplete")
		}

		fmt.Fprintf(out, "\nLog saved to: %s\n", logPath)
		if report.NotAttempted > 0 {
			fmt.Fprintf(out, "⚠ Interrupted: %d requests not attempted\n", report.NotAttempted)
		}
		fmt.Fprintf(out, "Done. processed=%d errors=%d warnings=%d\n", len(report.Outcomes), report.Errors, report.Warnings)

		code := report.ExitCode()
		if runErr != nil && code == exitOK {
			code = exitErrors
		}
		if code != exitOK {
			return &exitError{code: code}
		}
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "actually remove files (default is a dry run)")
	deleteCmd.Flags().StringVar(&deleteRoot, "root", "", "refuse anything outside this directory")
	deleteCmd.Flags().StringVar(&deleteLog, "log", "", "audit log path (default from config, delete_log.txt)")
	deleteCmd.Flags().IntVarP(&deleteWorkers, "workers", "w", 1, "number of requests processed at once")
	rootCmd.AddCommand(deleteCmd)
}
