package featuredb

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/genomenotebook/genomenotebook/internal/feature"
)

// ImportOptions selects the files to import.
type ImportOptions struct {
	GFFPath   string
	FASTAPath string
	Types     []string // nil keeps feature.DefaultTypes, empty keeps all
	Force     bool     // re-import even if the files are unchanged
}

// ImportStats summarizes an import.
type ImportStats struct {
	Features  int
	Sequences int
	Skipped   []string // source kinds left untouched because they were fresh
}

// Import loads annotation and sequence files into the store.
func (s *Store) Import(opts ImportOptions, logger *zap.Logger) (ImportStats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var stats ImportStats

	if opts.GFFPath != "" {
		skip, err := s.skip(SourceGFF, opts.GFFPath, opts.Force)
		if err != nil {
			return stats, err
		}
		if skip {
			stats.Skipped = append(stats.Skipped, SourceGFF)
			logger.Info("annotation unchanged, skipping", zap.String("path", opts.GFFPath))
		} else {
			loader := feature.NewGFFLoader(opts.GFFPath)
			if opts.Types != nil {
				loader.SetTypes(opts.Types)
			}
			features, err := loader.LoadAll()
			if err != nil {
				return stats, fmt.Errorf("load GFF: %w", err)
			}
			if err := s.ClearFeatures(); err != nil {
				return stats, fmt.Errorf("clear features: %w", err)
			}
			if err := s.WriteFeatures(features); err != nil {
				return stats, fmt.Errorf("write features: %w", err)
			}
			if err := s.record(SourceGFF, opts.GFFPath); err != nil {
				return stats, err
			}
			stats.Features = len(features)
			logger.Info("imported annotation",
				zap.String("path", opts.GFFPath),
				zap.Int("features", len(features)))
		}
	}

	if opts.FASTAPath != "" {
		skip, err := s.skip(SourceFASTA, opts.FASTAPath, opts.Force)
		if err != nil {
			return stats, err
		}
		if skip {
			stats.Skipped = append(stats.Skipped, SourceFASTA)
			logger.Info("sequence unchanged, skipping", zap.String("path", opts.FASTAPath))
		} else {
			err := feature.NewFASTALoader(opts.FASTAPath).Each(func(id, seq string) error {
				stats.Sequences++
				logger.Debug("importing sequence", zap.String("seq_id", id), zap.Int("length", len(seq)))
				return s.WriteSequence(id, seq)
			})
			if err != nil {
				return stats, fmt.Errorf("load FASTA: %w", err)
			}
			if err := s.record(SourceFASTA, opts.FASTAPath); err != nil {
				return stats, err
			}
			logger.Info("imported sequences",
				zap.String("path", opts.FASTAPath),
				zap.Int("sequences", stats.Sequences))
		}
	}

	return stats, nil
}

func (s *Store) skip(kind, path string, force bool) (bool, error) {
	if force {
		return false, nil
	}
	fresh, err := s.Fresh(kind, path)
	if err != nil {
		return false, fmt.Errorf("check %s source: %w", kind, err)
	}
	return fresh, nil
}

func (s *Store) record(kind, path string) error {
	fp, err := StatFile(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return s.RecordSource(kind, fp)
}
