package glyph

import "sort"

// Table maps feature types to rules, with an explicit fallback for unknown types.
type Table struct {
	rules    map[string]Rule
	fallback Rule
}

// BasicArrow is the rule used for coding features and for unknown types.
func BasicArrow() Rule {
	return Rule{Shape: Arrow, Colors: []string{"purple", "orange"}, Alpha: 0.8, ShowName: true, Height: 1, NameAttr: "gene"}
}

// BasicBox is the rule used for repeat regions and exons.
func BasicBox() Rule {
	return Rule{Shape: Box, Colors: []string{"grey"}, Alpha: 1, ShowName: false, Height: 0.8, NameAttr: "gene"}
}

// NewTable creates a table with only a fallback rule.
func NewTable(fallback Rule) *Table {
	return &Table{rules: make(map[string]Rule), fallback: fallback}
}

// DefaultTable returns the default glyph table.
func DefaultTable() *Table {
	t := NewTable(BasicArrow())
	for _, ft := range []string{"CDS", "ncRNA", "rRNA", "tRNA"} {
		t.Set(ft, BasicArrow())
	}
	t.Set("repeat_region", BasicBox())
	t.Set("exon", BasicBox())
	return t
}

// Set sets the rule for a feature type.
func (t *Table) Set(featureType string, r Rule) {
	t.rules[featureType] = r
}

// Lookup returns the rule for a feature type, or the fallback rule.
func (t *Table) Lookup(featureType string) Rule {
	if r, ok := t.rules[featureType]; ok {
		return r
	}
	return t.fallback
}

// Has reports whether the type has its own rule.
func (t *Table) Has(featureType string) bool {
	_, ok := t.rules[featureType]
	return ok
}

// Types returns the types that have their own rule, sorted.
func (t *Table) Types() []string {
	types := make([]string, 0, len(t.rules))
	for k := range t.rules {
		types = append(types, k)
	}
	sort.Strings(types)
	return types
}

// Fallback returns the rule used for unknown types.
func (t *Table) Fallback() Rule {
	return t.fallback
}

// SetNameAttr sets the name attribute of a type, creating its entry from the
// fallback rule when the type has none.
func (t *Table) SetNameAttr(featureType, attr string) {
	r := t.Lookup(featureType)
	r.NameAttr = attr
	t.rules[featureType] = r
}

// SetAllNameAttrs sets the name attribute of every rule, including the fallback.
func (t *Table) SetAllNameAttrs(attr string) {
	t.fallback.NameAttr = attr
	for k, r := range t.rules {
		r.NameAttr = attr
		t.rules[k] = r
	}
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := NewTable(cloneRule(t.fallback))
	for k, r := range t.rules {
		c.rules[k] = cloneRule(r)
	}
	return c
}

func cloneRule(r Rule) Rule {
	r.Colors = append([]string(nil), r.Colors...)
	return r
}
