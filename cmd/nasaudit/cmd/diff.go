package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"nasaudit/internal/compare"
	"nasaudit/internal/tree"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old.json> <new.json>",
	Short: "Compare two exported indexes",
	Long: `Compare two indexes written by "nasaudit index" and list files added,
removed or modified (size or content hash changed).

Exit status: 0 no changes, 1 changes found, 2 an index could not be read.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldIdx, err := tree.Load(args[0])
		if err != nil {
			return &exitError{code: exitErrors, err: fmt.Errorf("failed to load index: %w", err)}
		}
		newIdx, err := tree.Load(args[1])
		if err != nil {
			return &exitError{code: exitErrors, err: fmt.Errorf("failed to load index: %w", err)}
		}

		if oldIdx.Fingerprint != "" && oldIdx.Fingerprint == newIdx.Fingerprint {
			fmt.Println("Fingerprints match.")
		}

		result := compare.Compare(oldIdx, newIdx)
		fmt.Println(compare.FormatReport(result))

		if result.HasChanges() {
			return &exitError{code: 1}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
