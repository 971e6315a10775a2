package main

import (
	"github.com/spf13/cobra"

	"github.com/genomenotebook/genomenotebook/internal/browser"
	"github.com/genomenotebook/genomenotebook/internal/output"
	"github.com/genomenotebook/genomenotebook/internal/track"
)

func newRenderCmd() *cobra.Command {
	var (
		src        sourceFlags
		outputFile string
		query      string
		highlights []string
		allTracks  bool
		pan        int
		zoom       float64
		stack      bool
		compact    bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the browser frame as JSON",
		Long: `Build a browser, apply the requested viewport events and write the frame a
rendering surface draws: viewport, per-track glyph rows, highlights and sequence.`,
		Example: `  genomenotebook render --gff genomic.gff --fasta genomic.fna --position 5000 --window 2000
  genomenotebook render --db ecoli.duckdb --query thrA --highlight 190-255:orange
  genomenotebook render --db plasmids.duckdb --stack`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			regions := make([]browser.Region, 0, len(highlights))
			for _, h := range highlights {
				r, err := parseRegion(h)
				if err != nil {
					return usageError{err}
				}
				regions = append(regions, r)
			}

			var b *browser.Browser
			var frame func() browser.Frame
			if stack {
				opts, err := src.options(cmd)
				if err != nil {
					return err
				}
				s, err := browser.NewStackFromDB(opts, browser.WithLogger(logger))
				if err != nil {
					return explainBrowserError(err)
				}
				b, frame = s.Primary(), s.Show
			} else {
				var err error
				if b, err = src.open(cmd); err != nil {
					return err
				}
				frame = b.Show
			}

			if query != "" {
				b.NavigateQuery(query)
			}
			if pan != 0 {
				b.Pan(pan)
			}
			if zoom > 0 {
				b.Zoom(zoom, b.Viewport().Range().Center())
			}
			if len(regions) > 0 {
				b.Highlight(regions, track.DefaultHighlightAlpha, allTracks)
			}

			out, err := openOutput(outputFile)
			if err != nil {
				return err
			}
			defer out.Close()
			return output.NewFrameWriter(out, !compact).Write(frame())
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Center on the first feature name or sequence match")
	cmd.Flags().StringArrayVar(&highlights, "highlight", nil, "Highlight start-end[:color] (repeatable)")
	cmd.Flags().BoolVar(&allTracks, "all-tracks", false, "Highlight every track, not only the annotation track")
	cmd.Flags().IntVar(&pan, "pan", 0, "Shift the viewport by this many bases")
	cmd.Flags().Float64Var(&zoom, "zoom", 0, "Scale the viewport width around its center")
	cmd.Flags().BoolVar(&stack, "stack", false, "Stack one browser per sequence of --db")
	cmd.Flags().BoolVar(&compact, "compact", false, "Write JSON without indentation")
	return cmd
}
