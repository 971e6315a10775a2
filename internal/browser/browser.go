// Package browser assembles a genome browser: features, glyph geometry, a
// shared viewport, windowed loading, linked tracks and search.
package browser

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/genomenotebook/genomenotebook/internal/feature"
	"github.com/genomenotebook/genomenotebook/internal/featuredb"
	"github.com/genomenotebook/genomenotebook/internal/glyph"
	"github.com/genomenotebook/genomenotebook/internal/search"
	"github.com/genomenotebook/genomenotebook/internal/track"
	"github.com/genomenotebook/genomenotebook/internal/viewport"
	"github.com/genomenotebook/genomenotebook/internal/window"
)

// Browser is one genome browser instance. It owns the viewport; loaders,
// tracks and the search index hold references to it. A Browser is not safe
// for concurrent use.
type Browser struct {
	opts     Options
	seqID    string
	store    *feature.Store
	renderer *glyph.Renderer
	rows     []glyph.Row
	bounds   viewport.Range

	viewport *viewport.Viewport
	loader   *window.Loader
	composer *track.Composer
	index    *search.Index

	showSeq   bool
	navigator *search.Navigator
	warnings  []Warning
	logger    *zap.Logger
}

// WithLogger sets the logger used during construction and navigation.
func WithLogger(l *zap.Logger) Option {
	return func(b *Browser) { b.logger = l }
}

// New builds a browser from opts. It returns a *ConfigurationError when the
// options are unusable; data problems become warnings instead.
func New(opts Options, options ...Option) (*Browser, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	b := &Browser{opts: opts, logger: zap.NewNop(), showSeq: opts.ShowSequence}
	for _, o := range options {
		o(b)
	}

	features, seq, err := b.loadSources()
	if err != nil {
		return nil, err
	}

	b.bounds = b.resolveBounds(features, seq)
	seq = feature.SliceSequence(seq, feature.Region{Start: b.bounds.Start, End: b.bounds.End})
	if seq == "" {
		b.showSeq = false
	}

	inBounds := make([]*feature.Feature, 0, len(features))
	for _, f := range features {
		if f.Overlaps(b.bounds.Start, b.bounds.End) {
			inBounds = append(inBounds, f)
		}
	}
	if b.store, err = feature.NewStoreFrom(inBounds); err != nil {
		return nil, fmt.Errorf("build feature store: %w", err)
	}

	if opts.ZStack {
		layers, err := feature.AddZOrder(b.store.Features())
		if err != nil {
			return nil, fmt.Errorf("stack features: %w", err)
		}
		b.logger.Debug("stacked overlapping features", zap.Int("layers", layers))
	}

	b.renderer = glyph.NewRenderer(opts.glyphTable(), opts.geometry())
	b.rows = b.renderer.RenderAll(b.store.Features(), opts.Workers)

	vp, vpWarnings, err := viewport.New(viewport.Config{
		Bounds:      b.bounds,
		Position:    opts.Position,
		Window:      opts.Window,
		MinInterval: opts.MinInterval,
		MaxInterval: opts.MaxInterval,
	})
	if err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}
	for _, w := range vpWarnings {
		b.warn(WarningKind(w.Kind), w.Message)
	}
	b.viewport = vp

	b.loader = window.New(b.rows, b.bounds, opts.Margin)
	b.loader.SetLogger(b.logger)
	b.composer = track.NewComposer(vp, opts.Width, track.Options{
		Name:   b.seqID,
		Height: opts.Height,
		Loader: b.loader,
	})
	b.loader.Update(vp.Range())

	b.index = search.NewIndex(seq, b.bounds)

	b.logger.Info("browser ready",
		zap.String("seq_id", b.seqID),
		zap.Int("features", b.store.Len()),
		zap.Stringer("bounds", b.bounds),
		zap.Stringer("viewport", vp.Range()),
		zap.Bool("sequence", b.showSeq))

	return b, nil
}

// loadSources reads the features and, when available, the sequence.
func (b *Browser) loadSources() ([]*feature.Feature, string, error) {
	opts := b.opts
	switch {
	case opts.GFFPath != "":
		loader := feature.NewGFFLoader(opts.GFFPath)
		loader.SetSeqID(opts.SeqID)
		loader.SetTypes(opts.types())
		if opts.Bounds != nil {
			loader.SetRegion(feature.Region{Start: opts.Bounds.Start, End: opts.Bounds.End})
		}
		s := feature.NewStore()
		if err := loader.Load(s); err != nil {
			return nil, "", fmt.Errorf("load features: %w", err)
		}
		b.seqID = loader.SeqID()
		if opts.SeqID != "" && s.Len() == 0 {
			b.warn(SeqIDNotFound, fmt.Sprintf("no features of sequence %q in %s", opts.SeqID, opts.GFFPath))
		}
		return s.Features(), b.sequenceFromFASTA(), nil

	case opts.DBPath != "":
		return b.loadFromDB()

	default:
		b.seqID = opts.SeqID
		if b.seqID == "" && len(opts.Features) > 0 {
			b.seqID = opts.Features[0].SeqID
		}
		features := make([]*feature.Feature, 0, len(opts.Features))
		for _, f := range opts.Features {
			if f.SeqID == b.seqID {
				features = append(features, f)
			}
		}
		if opts.SeqID != "" && len(features) == 0 && len(opts.Features) > 0 {
			b.warn(SeqIDNotFound, fmt.Sprintf("no features of sequence %q", opts.SeqID))
		}
		seq := opts.Sequence
		if seq == "" {
			seq = b.sequenceFromFASTA()
		}
		return features, seq, nil
	}
}

func (b *Browser) loadFromDB() ([]*feature.Feature, string, error) {
	opts := b.opts
	db, err := featuredb.Open(opts.DBPath)
	if err != nil {
		return nil, "", fmt.Errorf("open feature database: %w", err)
	}
	defer db.Close()

	ids, err := db.SeqIDs()
	if err != nil {
		return nil, "", err
	}
	b.seqID = opts.SeqID
	known := slices.Contains(ids, b.seqID)
	switch {
	case b.seqID == "" && len(ids) > 0:
		b.seqID = ids[0]
		known = true
	case b.seqID != "" && !known:
		b.warn(SeqIDNotFound, fmt.Sprintf("sequence %q not found in %s", b.seqID, opts.DBPath))
	}

	q := featuredb.Query{SeqID: b.seqID, Types: opts.types()}
	if opts.Bounds != nil {
		q.Region = feature.Region{Start: opts.Bounds.Start, End: opts.Bounds.End}
	}
	features, err := db.Features(q)
	if err != nil {
		return nil, "", fmt.Errorf("load features: %w", err)
	}

	if opts.Sequence != "" {
		return features, opts.Sequence, nil
	}
	if opts.GenomePath != "" {
		return features, b.sequenceFromFASTA(), nil
	}
	seq, err := db.Sequence(b.seqID, feature.Region{})
	if err != nil {
		if !errors.Is(err, featuredb.ErrNotFound) {
			return nil, "", fmt.Errorf("load sequence: %w", err)
		}
		if known && opts.ShowSequence {
			b.warn(SequenceUnavailable, fmt.Sprintf("no sequence stored for %q in %s", b.seqID, opts.DBPath))
		}
		return features, "", nil
	}
	return features, seq, nil
}

// sequenceFromFASTA loads the sequence of the browser's seq id. Failures
// disable the sequence display and are recorded as warnings.
func (b *Browser) sequenceFromFASTA() string {
	if b.opts.GenomePath == "" {
		return ""
	}
	_, seq, err := feature.NewFASTALoader(b.opts.GenomePath).Load(b.seqID)
	switch {
	case errors.Is(err, feature.ErrSequenceNotFound):
		b.warn(SeqIDNotFound, fmt.Sprintf("sequence %q not found in %s", b.seqID, b.opts.GenomePath))
		return ""
	case err != nil:
		b.warn(SequenceUnavailable, fmt.Sprintf("genome file %s cannot be parsed as a FASTA file: %v", b.opts.GenomePath, err))
		return ""
	}
	return seq
}

// resolveBounds returns the configured bounds or derives them from the
// sequence length, else from the rightmost feature.
func (b *Browser) resolveBounds(features []*feature.Feature, seq string) viewport.Range {
	if b.opts.Bounds != nil {
		return *b.opts.Bounds
	}
	end := len(seq)
	if end == 0 {
		for _, f := range features {
			end = max(end, f.Right())
		}
	}
	if end <= 0 {
		end = max(b.opts.MinInterval, viewport.DefaultMinInterval)
	}
	return viewport.Range{Start: 0, End: end}
}

func (b *Browser) warn(kind WarningKind, msg string) {
	w := Warning{Kind: kind, Message: msg}
	b.warnings = append(b.warnings, w)
	b.logger.Warn(msg, zap.String("kind", string(kind)))
}

// Warnings returns the recoverable problems met during construction.
func (b *Browser) Warnings() []Warning { return b.warnings }

// SeqID returns the displayed sequence id.
func (b *Browser) SeqID() string { return b.seqID }

// Bounds returns the global coordinate bounds.
func (b *Browser) Bounds() viewport.Range { return b.bounds }

// Viewport returns the shared viewport.
func (b *Browser) Viewport() *viewport.Viewport { return b.viewport }

// Store returns the features within the bounds.
func (b *Browser) Store() *feature.Store { return b.store }

// Rows returns the geometry of every feature within the bounds.
func (b *Browser) Rows() []glyph.Row { return b.rows }

// Loader returns the primary windowed loader.
func (b *Browser) Loader() *window.Loader { return b.loader }

// Composer returns the track composer.
func (b *Browser) Composer() *track.Composer { return b.composer }

// Index returns the sequence index.
func (b *Browser) Index() *search.Index { return b.index }

// SequenceShown reports whether the sequence panel is enabled.
func (b *Browser) SequenceShown() bool { return b.showSeq }
