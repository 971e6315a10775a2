package featuredb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/genomenotebook/genomenotebook/internal/feature"
)

// encodeAttributes serialises the attribute map stored with each feature.
var encodeAttributes = func(attrs map[string]string) ([]byte, error) { return json.Marshal(attrs) }

// WriteFeatures replaces the features of every sequence present in features,
// keeping their order, using the Appender API. The delete and the appends run
// in one transaction, so a failed write leaves the stored features unchanged.
func (s *Store) WriteFeatures(features []*feature.Feature) (err error) {
	if len(features) == 0 {
		return nil
	}

	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `BEGIN TRANSACTION`); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			conn.ExecContext(ctx, `ROLLBACK`) //nolint:errcheck
		}
	}()

	seqIDs := make(map[string]bool)
	for _, f := range features {
		seqIDs[f.SeqID] = true
	}
	for id := range seqIDs {
		if _, err := conn.ExecContext(ctx, `DELETE FROM features WHERE seq_id = ?`, id); err != nil {
			return fmt.Errorf("clear features of %s: %w", id, err)
		}
	}

	if err := appendFeatures(conn, features); err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, `COMMIT`); err != nil {
		return fmt.Errorf("commit features: %w", err)
	}
	return nil
}

// appendFeatures bulk-loads features on conn. The appender is closed, and so
// flushed, before it returns.
func appendFeatures(conn *sql.Conn, features []*feature.Feature) error {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "features")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}

	next := make(map[string]int64)
	for _, f := range features {
		attrs, err := encodeAttributes(f.Attributes)
		if err != nil {
			appender.Close()
			return fmt.Errorf("encode attributes: %w", err)
		}
		var score any
		if f.Score != nil {
			score = *f.Score
		}
		idx := next[f.SeqID]
		next[f.SeqID]++

		if err := appender.AppendRow(
			f.SeqID, idx, f.Source, f.Type,
			int64(f.Start), int64(f.End), int64(f.Strand),
			score, f.Phase, string(attrs), int64(f.Z),
		); err != nil {
			appender.Close()
			return fmt.Errorf("append feature: %w", err)
		}
	}

	if err := appender.Close(); err != nil {
		return fmt.Errorf("flush features: %w", err)
	}
	return nil
}

// Query restricts a feature lookup.
type Query struct {
	SeqID  string
	Region feature.Region // zero End means the whole sequence
	Types  []string       // empty keeps every type
}

// Features returns the stored features matching q in import order.
func (s *Store) Features(q Query) ([]*feature.Feature, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT seq_id, source, type, start_pos, end_pos, strand, score, phase, attributes, z
		FROM features WHERE seq_id = ?`)
	args := []any{q.SeqID}

	if !q.Region.Unbounded() {
		sb.WriteString(` AND GREATEST(start_pos, end_pos) > ? AND LEAST(start_pos, end_pos) < ?`)
		args = append(args, int64(q.Region.Start), int64(q.Region.End))
	}
	if len(q.Types) > 0 {
		sb.WriteString(` AND type IN (?` + strings.Repeat(", ?", len(q.Types)-1) + `)`)
		for _, t := range q.Types {
			args = append(args, t)
		}
	}
	sb.WriteString(` ORDER BY idx`)

	rows, err := s.db.Query(sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()

	return scanFeatures(rows)
}

func scanFeatures(rows *sql.Rows) ([]*feature.Feature, error) {
	var out []*feature.Feature
	for rows.Next() {
		var (
			f                  feature.Feature
			start, end, strand int64
			z                  int64
			score              sql.NullFloat64
			attrs              string
		)
		if err := rows.Scan(&f.SeqID, &f.Source, &f.Type, &start, &end, &strand, &score, &f.Phase, &attrs, &z); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		f.Start, f.End, f.Strand, f.Z = int(start), int(end), feature.Strand(strand), int(z)
		if score.Valid {
			v := score.Float64
			f.Score = &v
		}
		if err := json.Unmarshal([]byte(attrs), &f.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes: %w", err)
		}
		out = append(out, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate features: %w", err)
	}
	return out, nil
}

// SeqIDs returns the sequence ids that have features or a sequence, sorted.
func (s *Store) SeqIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT seq_id FROM features UNION SELECT seq_id FROM sequences ORDER BY seq_id`)
	if err != nil {
		return nil, fmt.Errorf("query sequence ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan sequence id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TypeCount is the number of stored features of one type.
type TypeCount struct {
	Type  string
	Count int64
}

// Types returns per-type feature counts of a sequence, sorted by type.
func (s *Store) Types(seqID string) ([]TypeCount, error) {
	rows, err := s.db.Query(`SELECT type, COUNT(*) FROM features WHERE seq_id = ? GROUP BY type ORDER BY type`, seqID)
	if err != nil {
		return nil, fmt.Errorf("query feature types: %w", err)
	}
	defer rows.Close()

	var out []TypeCount
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan feature type: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// MaxRight returns the largest feature coordinate of a sequence, 0 if it has none.
func (s *Store) MaxRight(seqID string) (int, error) {
	var m sql.NullInt64
	err := s.db.QueryRow(`SELECT MAX(GREATEST(start_pos, end_pos)) FROM features WHERE seq_id = ?`, seqID).Scan(&m)
	if err != nil {
		return 0, fmt.Errorf("query max coordinate: %w", err)
	}
	return int(m.Int64), nil
}

// ClearFeatures removes all stored features.
func (s *Store) ClearFeatures() error {
	_, err := s.db.Exec("DELETE FROM features")
	return err
}
