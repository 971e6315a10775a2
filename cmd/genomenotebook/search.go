package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/genomenotebook/genomenotebook/internal/output"
)

func newSearchCmd() *cobra.Command {
	var (
		src        sourceFlags
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find features by name, or sequence motifs on both strands",
		Long: `Search feature names (exact, then prefix, case-insensitive). When no name
matches and a sequence is loaded, search the sequence and its reverse complement.`,
		Example: `  genomenotebook search --db ecoli.duckdb thr
  genomenotebook search --gff genomic.gff --fasta genomic.fna GATTACA`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := src.open(cmd)
			if err != nil {
				return err
			}
			b.NavigateQuery(args[0])
			matches := b.SearchMatches()
			if len(matches) == 0 {
				fmt.Fprintf(os.Stderr, "No matches for %q\n", args[0])
			}

			out, err := openOutput(outputFile)
			if err != nil {
				return err
			}
			defer out.Close()

			w := output.NewTabWriter(out, b.SeqID())
			if err := w.WriteMatches(matches); err != nil {
				return err
			}
			return w.Flush()
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
