package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/genomenotebook/genomenotebook/internal/browser"
	"github.com/genomenotebook/genomenotebook/internal/config"
	"github.com/genomenotebook/genomenotebook/internal/viewport"
)

// sourceFlags are the browser source and viewport flags shared by commands.
type sourceFlags struct {
	gff        string
	db         string
	fasta      string
	seqID      string
	start      int
	end        int
	position   int
	window     int
	types      []string
	allTypes   bool
	zStack     bool
	noSequence bool
	width      int
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.gff, "gff", "", "GFF3 annotation file (.gff or .gff.gz)")
	fs.StringVar(&f.db, "db", "", "Feature database created by 'genomenotebook import'")
	fs.StringVar(&f.fasta, "fasta", "", "Genome FASTA file (.fa or .fa.gz)")
	fs.StringVar(&f.seqID, "seq-id", "", "Sequence to browse (default: first in the source)")
	fs.IntVar(&f.start, "start", 0, "Start of the browsable bounds")
	fs.IntVar(&f.end, "end", 0, "End of the browsable bounds")
	fs.IntVar(&f.position, "position", 0, "Initial viewport center")
	fs.IntVar(&f.window, "window", 0, "Initial viewport width in bases")
	fs.StringSliceVar(&f.types, "types", nil, "Feature types to load (default: config or built-in list)")
	fs.BoolVar(&f.allTypes, "all-types", false, "Load every feature type")
	fs.BoolVar(&f.zStack, "z-stack", false, "Stack overlapping features")
	fs.BoolVar(&f.noSequence, "no-sequence", false, "Disable the sequence panel")
	fs.IntVar(&f.width, "width", 0, "Frame width in pixels")
}

// options merges config settings and flags into browser options.
func (f *sourceFlags) options(cmd *cobra.Command) (browser.Options, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return browser.Options{}, err
	}
	opts := browser.DefaultOptions()
	if err := settings.Apply(&opts); err != nil {
		return browser.Options{}, hintError{err, "Check the glyphs section of " + config.FileName}
	}

	opts.GFFPath = f.gff
	opts.DBPath = f.db
	opts.GenomePath = f.fasta
	opts.SeqID = f.seqID

	flags := cmd.Flags()
	if flags.Changed("start") || flags.Changed("end") {
		opts.Bounds = &viewport.Range{Start: f.start, End: f.end}
	}
	if flags.Changed("position") {
		pos := f.position
		opts.Position = &pos
	}
	if f.window > 0 {
		opts.Window = f.window
	}
	switch {
	case f.allTypes:
		opts.Types = []string{}
	case len(f.types) > 0:
		opts.Types = f.types
	}
	if f.zStack {
		opts.ZStack = true
	}
	if f.noSequence {
		opts.ShowSequence = false
	}
	if f.width > 0 {
		opts.Width = f.width
	}
	return opts, nil
}

func (f *sourceFlags) open(cmd *cobra.Command) (*browser.Browser, error) {
	opts, err := f.options(cmd)
	if err != nil {
		return nil, err
	}
	b, err := browser.New(opts, browser.WithLogger(logger))
	if err != nil {
		return nil, explainBrowserError(err)
	}
	for _, w := range b.Warnings() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	return b, nil
}

func explainBrowserError(err error) error {
	var cfgErr *browser.ConfigurationError
	if errors.As(err, &cfgErr) {
		return usageError{hintError{err, "Pass exactly one of --gff or --db"}}
	}
	if errors.Is(err, os.ErrNotExist) {
		return hintError{err, "Check that the file path is correct"}
	}
	return err
}

// parseRegion parses "start-end" with an optional ":color" suffix.
func parseRegion(s string) (browser.Region, error) {
	span, color, _ := strings.Cut(s, ":")
	a, b, ok := strings.Cut(span, "-")
	if !ok {
		return browser.Region{}, fmt.Errorf("region %q: expected start-end", s)
	}
	left, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return browser.Region{}, fmt.Errorf("region %q: %w", s, err)
	}
	right, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return browser.Region{}, fmt.Errorf("region %q: %w", s, err)
	}
	if right < left {
		return browser.Region{}, fmt.Errorf("region %q: end before start", s)
	}
	return browser.Region{Left: left, Right: right, Color: color}, nil
}

// openOutput returns stdout for an empty path.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
