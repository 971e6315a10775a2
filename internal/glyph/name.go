package glyph

import "github.com/genomenotebook/genomenotebook/internal/feature"

// DefaultAttributes are the attributes tried, in order, when a feature lacks
// its configured name attribute. They are also the default hover attributes.
var DefaultAttributes = []string{"gene", "locus_tag", "product"}

// FeatureName returns the display name of a feature. If the rule hides names
// an empty string is returned. Otherwise the rule's name attribute is used,
// then the first non-empty fallback attribute, then "".
func FeatureName(f *feature.Feature, r Rule, fallbacks []string) string {
	if !r.ShowName {
		return ""
	}
	if r.NameAttr != "" {
		if v := f.Attr(r.NameAttr); v != "" {
			return v
		}
	}
	for _, attr := range fallbacks {
		if v := f.Attr(attr); v != "" {
			return v
		}
	}
	return ""
}
