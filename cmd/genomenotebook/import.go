package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/genomenotebook/genomenotebook/internal/featuredb"
)

func newImportCmd() *cobra.Command {
	var (
		dbPath   string
		gffPath  string
		fasta    string
		types    []string
		allTypes bool
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load GFF features and FASTA sequences into a feature database",
		Long: `Import annotation and sequence files into a DuckDB feature database. Files
already imported and unchanged since are skipped unless --force is given.`,
		Example: `  genomenotebook import --db ecoli.duckdb --gff genomic.gff.gz --fasta genomic.fna.gz
  genomenotebook import --db ecoli.duckdb --gff genomic.gff.gz --all-types --force`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return usageError{fmt.Errorf("--db is required")}
			}
			if gffPath == "" && fasta == "" {
				return usageError{hintError{fmt.Errorf("nothing to import"), "Pass --gff, --fasta or both"}}
			}

			store, err := featuredb.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			opts := featuredb.ImportOptions{GFFPath: gffPath, FASTAPath: fasta, Force: force}
			switch {
			case allTypes:
				opts.Types = []string{}
			case len(types) > 0:
				opts.Types = types
			}

			stats, err := store.Import(opts, logger)
			if err != nil {
				return explainBrowserError(err)
			}

			fmt.Printf("Imported %d features and %d sequences into %s\n", stats.Features, stats.Sequences, dbPath)
			if len(stats.Skipped) > 0 {
				fmt.Printf("Unchanged, skipped: %s (use --force to re-import)\n", strings.Join(stats.Skipped, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Feature database to create or update")
	cmd.Flags().StringVar(&gffPath, "gff", "", "GFF3 annotation file")
	cmd.Flags().StringVar(&fasta, "fasta", "", "Genome FASTA file")
	cmd.Flags().StringSliceVar(&types, "types", nil, "Feature types to import (default: built-in list)")
	cmd.Flags().BoolVar(&allTypes, "all-types", false, "Import every feature type")
	cmd.Flags().BoolVar(&force, "force", false, "Re-import files even if unchanged")
	return cmd
}
