package main

import (
	"github.com/spf13/cobra"

	"github.com/genomenotebook/genomenotebook/internal/output"
)

func newFeaturesCmd() *cobra.Command {
	var (
		src        sourceFlags
		outputFile string
		all        bool
		noHeader   bool
	)

	cmd := &cobra.Command{
		Use:   "features",
		Short: "List the glyph rows loaded around the viewport",
		Example: `  genomenotebook features --gff genomic.gff --position 5000 --window 2000
  genomenotebook features --db ecoli.duckdb --all --types CDS`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := src.open(cmd)
			if err != nil {
				return err
			}

			rows := b.Loader().Published()
			if all {
				rows = b.Rows()
			}

			out, err := openOutput(outputFile)
			if err != nil {
				return err
			}
			defer out.Close()

			w := output.NewTabWriter(out, b.SeqID())
			if !noHeader {
				if err := w.WriteHeader(); err != nil {
					return err
				}
			}
			for _, r := range rows {
				if err := w.Write(r); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&all, "all", false, "List every row within the bounds, not only the loaded range")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Omit the header line")
	return cmd
}
