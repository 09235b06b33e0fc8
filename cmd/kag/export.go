package kag

import (
	"fmt"

	"github.com/soundprediction/go-kag/pkg/export"
	"github.com/spf13/cobra"
)

var exportDB string

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Extract a document and store its triplets in DuckDB",
	Long: `Process a document and append the extracted triplets to a DuckDB
table for SQL analysis across runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportDB, "db", "", "DuckDB database path (default export.duckdb_path)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	dbPath := exportDB
	if dbPath == "" {
		dbPath = cfg.Export.DuckDBPath
	}
	if dbPath == "" {
		return fmt.Errorf("no DuckDB path: pass --db or set export.duckdb_path")
	}

	system, err := buildSystem(cfg, log)
	if err != nil {
		return err
	}
	defer system.Close(cmd.Context())

	result, err := system.ProcessDocument(cmd.Context(), args[0], "Document")
	if err != nil {
		return err
	}

	writer, err := export.NewDuckDBWriter(dbPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	if err := writer.WriteTriplets(cmd.Context(), result.DocumentID, result.Triplets); err != nil {
		return err
	}

	total, err := writer.CountTriplets(cmd.Context(), "")
	if err != nil {
		return err
	}
	fmt.Printf("Stored %d triplets for document %s (%d total in %s)\n",
		len(result.Triplets), result.DocumentID, total, dbPath)
	return nil
}
