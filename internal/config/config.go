// Package config loads the INI configuration file. Sections and their
// keys keep file order; the reserved [general] section holds the global
// knobs, every other section selects a source via its type key.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"did/internal/errs"
)

const (
	// GeneralSection is the reserved section name.
	GeneralSection = "general"

	// MaxWidth is the default and upper bound for output width.
	MaxWidth = 79

	// DefaultSeparator draws header banners.
	DefaultSeparator = "~"
)

// Example is the minimal config printed when no config file is found.
const Example = `[general]
email = "Display Name" <email@example.org>

[header]
type = header
highlights = Highlights

[footer]
type = footer
joy = Joy of the week ;-)
`

// KV is one ordered key/value pair of a section.
type KV struct {
	Key   string
	Value string
}

// Section is a named, ordered block of the config file.
type Section struct {
	Name string
	Keys []KV
}

// Get returns the value for key and whether it is present.
func (s Section) Get(key string) (string, bool) {
	for _, kv := range s.Keys {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Require returns the value for key or a config error naming the section.
func (s Section) Require(key string) (string, error) {
	value, ok := s.Get(key)
	if !ok || value == "" {
		return "", errs.Configf(s.Name, "missing required key %q", key)
	}
	return value, nil
}

// Type returns the section's type key, empty when absent.
func (s Section) Type() string {
	t, _ := s.Get("type")
	return t
}

// General holds the global knobs from the [general] section.
type General struct {
	Emails         []string
	Width          int
	Separator      string
	SeparatorWidth int
	Plugins        []string
}

// Config is the read-only view of a loaded config file.
type Config struct {
	path     string
	sections []Section
}

// DefaultPath returns the XDG config file location, honoring DID_CONFIG.
func DefaultPath() string {
	if env := os.Getenv("DID_CONFIG"); env != "" {
		return env
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "did", "config")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "did", "config")
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errs.ConfigFileError{Path: path, Msg: "not found"}
		}
		return nil, &errs.ConfigFileError{Path: path, Msg: "unreadable", Err: err}
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, &errs.ConfigFileError{Path: path, Msg: "parse error", Err: err}
	}
	cfg.path = path
	return cfg, nil
}

// LoadString parses config data given directly, used by tests.
func LoadString(data string) (*Config, error) {
	cfg, err := parse([]byte(data))
	if err != nil {
		return nil, &errs.ConfigFileError{Path: "<string>", Msg: "parse error", Err: err}
	}
	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	// Inline comment parsing is off: user strings legitimately contain
	// ";" for per-section aliases.
	file, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	seenGeneral := false
	for _, sec := range file.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		s := Section{Name: sec.Name()}
		for _, key := range sec.Keys() {
			s.Keys = append(s.Keys, KV{Key: key.Name(), Value: strings.TrimSpace(key.Value())})
		}
		cfg.sections = append(cfg.sections, s)
		if s.Name == GeneralSection {
			seenGeneral = true
		}
	}
	if !seenGeneral {
		return nil, fmt.Errorf("missing [%s] section", GeneralSection)
	}
	return cfg, nil
}

// Path returns the file the config was loaded from, empty for strings.
func (c *Config) Path() string { return c.path }

// General parses the [general] section knobs, applying defaults.
func (c *Config) General() (General, error) {
	g := General{
		Width:          MaxWidth,
		Separator:      DefaultSeparator,
		SeparatorWidth: MaxWidth,
	}
	sec, ok := c.section(GeneralSection)
	if !ok {
		return g, errs.Configf(GeneralSection, "section missing")
	}

	if v, ok := sec.Get("email"); ok {
		for _, e := range strings.Split(v, ",") {
			if e = strings.TrimSpace(e); e != "" {
				g.Emails = append(g.Emails, e)
			}
		}
	}
	if v, ok := sec.Get("width"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return g, errs.Configf(GeneralSection, "invalid width %q", v)
		}
		g.Width = n
	}
	if v, ok := sec.Get("separator"); ok && v != "" {
		g.Separator = v
	}
	if g.Width > 0 {
		g.SeparatorWidth = g.Width
	}
	if v, ok := sec.Get("separator_width"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return g, errs.Configf(GeneralSection, "invalid separator_width %q", v)
		}
		g.SeparatorWidth = n
	}
	if v, ok := sec.Get("plugins"); ok {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				g.Plugins = append(g.Plugins, p)
			}
		}
	}
	return g, nil
}

func (c *Config) section(name string) (Section, bool) {
	for _, s := range c.sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Section returns the named section.
func (c *Config) Section(name string) (Section, bool) {
	return c.section(name)
}

// Sections returns all non-general sections in file order.
func (c *Config) Sections() []Section {
	var out []Section
	for _, s := range c.sections {
		if s.Name != GeneralSection {
			out = append(out, s)
		}
	}
	return out
}

// SectionsByKind returns the sections whose type matches kind, in file
// order.
func (c *Config) SectionsByKind(kind string) []Section {
	var out []Section
	for _, s := range c.Sections() {
		if s.Type() == kind {
			out = append(out, s)
		}
	}
	return out
}
