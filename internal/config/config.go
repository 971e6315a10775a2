// Package config maps viper settings onto browser options.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/genomenotebook/genomenotebook/internal/browser"
	"github.com/genomenotebook/genomenotebook/internal/glyph"
)

// Config file and environment naming.
const (
	FileName  = ".genomenotebook.yaml"
	EnvPrefix = "GENOMENOTEBOOK"
)

// Settings is the full configuration tree.
type Settings struct {
	DataDir string                   `mapstructure:"data_dir"`
	Browser BrowserSettings          `mapstructure:"browser"`
	Glyphs  map[string]GlyphSettings `mapstructure:"glyphs"`
	Server  ServerSettings           `mapstructure:"server"`
}

// BrowserSettings hold the layout and loading defaults of new browsers.
type BrowserSettings struct {
	Window              int      `mapstructure:"window"`
	MinInterval         int      `mapstructure:"min_interval"`
	MaxInterval         int      `mapstructure:"max_interval"`
	Margin              int      `mapstructure:"margin"`
	Width               int      `mapstructure:"width"`
	Height              int      `mapstructure:"height"`
	CharWidth           int      `mapstructure:"char_width"`
	FeatureHeight       float64  `mapstructure:"feature_height"`
	LabelVerticalOffset float64  `mapstructure:"label_vertical_offset"`
	LabelJustify        string   `mapstructure:"label_justify"`
	NameAttr            string   `mapstructure:"name_attr"`
	ColorAttribute      string   `mapstructure:"color_attribute"`
	Types               []string `mapstructure:"types"`
	ZStack              bool     `mapstructure:"z_stack"`
	ShowSequence        bool     `mapstructure:"show_sequence"`
	Search              bool     `mapstructure:"search"`
	Workers             int      `mapstructure:"workers"`
}

// GlyphSettings override parts of the glyph rule of one feature type.
type GlyphSettings struct {
	Shape    string   `mapstructure:"shape"`
	Colors   []string `mapstructure:"colors"`
	Alpha    *float64 `mapstructure:"alpha"`
	ShowName *bool    `mapstructure:"show_name"`
	Height   *float64 `mapstructure:"height"`
	NameAttr string   `mapstructure:"name_attr"`
}

// ServerSettings configure the HTTP transport.
type ServerSettings struct {
	Addr       string        `mapstructure:"addr"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// SetDefaults registers the default value of every setting.
func SetDefaults(v *viper.Viper) {
	d := browser.DefaultOptions()
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("browser.window", d.Window)
	v.SetDefault("browser.min_interval", d.MinInterval)
	v.SetDefault("browser.max_interval", d.MaxInterval)
	v.SetDefault("browser.margin", d.Margin)
	v.SetDefault("browser.width", d.Width)
	v.SetDefault("browser.height", d.Height)
	v.SetDefault("browser.char_width", d.CharWidth)
	v.SetDefault("browser.feature_height", d.FeatureHeight)
	v.SetDefault("browser.label_vertical_offset", d.LabelVerticalOffset)
	v.SetDefault("browser.label_justify", d.LabelJustify)
	v.SetDefault("browser.name_attr", d.NameAttr)
	v.SetDefault("browser.show_sequence", d.ShowSequence)
	v.SetDefault("browser.search", d.Search)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.session_ttl", "1h")
}

// DefaultDataDir returns ~/.genomenotebook, or "" if the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".genomenotebook")
}

// Init wires defaults, the environment and the config file into v. An empty
// cfgFile looks for ~/.genomenotebook.yaml; a missing default file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(home)
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load decodes the settings held by v.
func Load(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

// Apply copies the browser settings and glyph overrides into opts.
func (s Settings) Apply(opts *browser.Options) error {
	b := s.Browser
	opts.Window = b.Window
	opts.MinInterval = b.MinInterval
	opts.MaxInterval = b.MaxInterval
	opts.Margin = b.Margin
	opts.Width = b.Width
	opts.Height = b.Height
	opts.CharWidth = b.CharWidth
	opts.FeatureHeight = b.FeatureHeight
	opts.LabelVerticalOffset = b.LabelVerticalOffset
	opts.LabelJustify = b.LabelJustify
	opts.NameAttr = b.NameAttr
	opts.ColorAttribute = b.ColorAttribute
	if b.Types != nil {
		opts.Types = b.Types
	}
	opts.ZStack = b.ZStack
	opts.ShowSequence = b.ShowSequence
	opts.Search = b.Search
	opts.Workers = b.Workers

	if len(s.Glyphs) == 0 {
		return nil
	}
	table, err := s.GlyphTable(b.NameAttr)
	if err != nil {
		return err
	}
	opts.Glyphs = table
	return nil
}

// GlyphTable returns the default glyph table with the configured overrides.
func (s Settings) GlyphTable(nameAttr string) (*glyph.Table, error) {
	t := glyph.DefaultTable()
	if nameAttr != "" {
		t.SetAllNameAttrs(nameAttr)
	}
	known := append(t.Types(), wellKnownTypes...)
	for key, g := range s.Glyphs {
		ft := canonicalType(key, known)
		r := g.merge(t.Lookup(ft))
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("glyph for %s: %w", ft, err)
		}
		t.Set(ft, r)
	}
	return t, nil
}

// wellKnownTypes restore the case of GFF3 types, since viper lowercases keys.
var wellKnownTypes = []string{"gene", "mRNA", "tmRNA", "misc_RNA", "pseudogene", "mobile_genetic_element", "sequence_feature"}

func canonicalType(key string, known []string) string {
	for _, k := range known {
		if strings.EqualFold(k, key) {
			return k
		}
	}
	return key
}

func (g GlyphSettings) merge(r glyph.Rule) glyph.Rule {
	if g.Shape != "" {
		r.Shape = glyph.Shape(g.Shape)
	}
	if len(g.Colors) > 0 {
		r.Colors = append([]string(nil), g.Colors...)
	}
	if g.Alpha != nil {
		r.Alpha = *g.Alpha
	}
	if g.ShowName != nil {
		r.ShowName = *g.ShowName
	}
	if g.Height != nil {
		r.Height = *g.Height
	}
	if g.NameAttr != "" {
		r.NameAttr = g.NameAttr
	}
	return r
}
