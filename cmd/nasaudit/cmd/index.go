package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"nasaudit/internal/dupes"
	"nasaudit/internal/progress"
	"nasaudit/internal/record"
	"nasaudit/internal/store"
	"nasaudit/internal/tree"
)

var (
	indexOutput string
	indexSQLite string
	indexAll    bool
)

var indexCmd = &cobra.Command{
	Use:   "index <inventory.csv>",
	Short: "Build the rollup index and mark duplicates",
	Long: `Read an inventory CSV (columns path, size_bytes, mtime and optionally
type, hash), aggregate it into a tree, mark duplicate files and fully
duplicated directories, and export the result as JSON.

Without --output the index is written to output/<fingerprint>.json.

Examples:
  nasaudit index scan.csv
  nasaudit index scan.csv -o audit.json --sqlite audit.db`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return aborted(fmt.Errorf("failed to open inventory: %w", err))
		}
		defer f.Close()

		records, err := record.ReadCSV(f)
		if err != nil {
			return aborted(fmt.Errorf("failed to read inventory: %w", err))
		}

		excluded := 0
		if !indexAll {
			records, excluded = record.NewFilter(cfg.Exclude).Apply(records)
		}
		fmt.Printf("Read %d records from %s\n", len(records)+excluded, args[0])
		if excluded > 0 {
			fmt.Printf("Excluded %d records matching exclude patterns\n", excluded)
		}

		fmt.Println("Aggregating...")
		bar := progress.New(int64(len(records)), os.Stderr)
		idx := tree.Build(records, bar)
		bar.Finish()

		for _, s := range idx.Skipped {
			logger.WithFields(logrus.Fields{
				"position": s.Position,
				"path":     s.Path,
			}).Warnf("skipped record: %v", s.Reason)
		}

		result := dupes.Detect(idx)

		exported, err := tree.Export(idx)
		if err != nil {
			return aborted(fmt.Errorf("failed to export index: %w", err))
		}

		// Set output path - from flag, config, or fingerprint
		outputPath := indexOutput
		if outputPath == "" {
			outputPath = cfg.OutputFile
		}
		if outputPath == "" {
			outputPath = filepath.Join("output", exported.Fingerprint+".json")
		}
		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			return aborted(fmt.Errorf("failed to create output directory: %w", err))
		}
		if err := tree.Save(exported, outputPath); err != nil {
			return aborted(fmt.Errorf("failed to save index: %w", err))
		}

		sqlitePath := indexSQLite
		if sqlitePath == "" {
			sqlitePath = cfg.SQLiteFile
		}
		if sqlitePath != "" {
			if err := store.SaveIndex(cmd.Context(), sqlitePath, exported); err != nil {
				return aborted(fmt.Errorf("failed to save SQLite index: %w", err))
			}
		}

		root := idx.Root()
		fmt.Printf("✓ Index generated successfully\n")
		fmt.Printf("  Fingerprint: %s\n", exported.Fingerprint)
		fmt.Printf("  Nodes: %d (%d records, %s)\n", len(idx.Nodes), root.Count, tree.FormatSize(root.Size))
		fmt.Printf("  Duplicate files: %d in %d groups\n", result.DuplicateLeaves, len(result.Groups))
		fmt.Printf("  Fully duplicated directories: %d\n", result.DuplicateDirs)
		fmt.Printf("  Reclaimable: %s\n", tree.FormatSize(result.Reclaimable))
		fmt.Printf("  Output: %s\n", outputPath)
		if sqlitePath != "" {
			fmt.Printf("  SQLite: %s\n", sqlitePath)
		}

		if len(idx.Skipped) > 0 {
			fmt.Printf("\n⚠ Skipped %d records with unusable paths\n", len(idx.Skipped))
		}
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVarP(&indexOutput, "output", "o", "", "JSON output path")
	indexCmd.Flags().StringVar(&indexSQLite, "sqlite", "", "also write the index to this SQLite database")
	indexCmd.Flags().BoolVar(&indexAll, "all", false, "ignore exclude patterns from the config")
	rootCmd.AddCommand(indexCmd)
}
