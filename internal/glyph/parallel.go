package glyph

import (
	"runtime"
	"sync"

	"github.com/genomenotebook/genomenotebook/internal/feature"
)

// WorkItem holds a feature waiting for geometry.
type WorkItem struct {
	Seq     int
	Feature *feature.Feature
}

// WorkResult holds the geometry of a single feature.
type WorkResult struct {
	Seq int
	Row Row
}

// Renderer produces rows for a fixed glyph table and options.
type Renderer struct {
	table *Table
	opts  Options
}

// NewRenderer creates a renderer. A nil table uses DefaultTable.
func NewRenderer(table *Table, opts Options) *Renderer {
	if table == nil {
		table = DefaultTable()
	}
	return &Renderer{table: table, opts: opts}
}

// Table returns the glyph table in use.
func (r *Renderer) Table() *Table { return r.table }

// Options returns the geometry options in use.
func (r *Renderer) Options() Options { return r.opts }

// ParallelRender renders work items using a pool of workers.
// Results arrive in completion order; WorkResult.Seq identifies the item.
// If workers is 0, runtime.NumCPU() is used.
func (r *Renderer) ParallelRender(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				results <- WorkResult{
					Seq: item.Seq,
					Row: NewRow(item.Feature, item.Seq, r.table, r.opts),
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// RenderAll returns one row per feature, in feature order.
func (r *Renderer) RenderAll(features []*feature.Feature, workers int) []Row {
	items := make(chan WorkItem, len(features))
	for i, f := range features {
		items <- WorkItem{Seq: i, Feature: f}
	}
	close(items)

	// Each result carries its item's index, so rows are placed directly.
	rows := make([]Row, len(features))
	for res := range r.ParallelRender(items, workers) {
		rows[res.Seq] = res.Row
	}
	return rows
}
