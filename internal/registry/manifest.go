package registry

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"did/internal/config"
	"did/internal/logging"
	"did/internal/stats"
	"did/internal/user"
)

// Manifest is the TOML schema for side-loaded source registrations:
// each entry derives a new type from an already registered base type,
// optionally injecting default section keys.
//
//	[[source]]
//	type = "corpgit"
//	base = "github"
//	[source.defaults]
//	url = "https://git.example.org/api/v3"
type Manifest struct {
	Sources []ManifestSource `toml:"source"`
}

// ManifestSource is one derived registration.
type ManifestSource struct {
	Type     string            `toml:"type"`
	Base     string            `toml:"base"`
	Defaults map[string]string `toml:"defaults"`
}

// LoadManifests registers the derived sources declared in each manifest
// file. Loading is best-effort: a broken manifest is logged and the
// rest continue. Strict mode, used by tests, promotes the first failure
// to fatal.
func (r *Registry) LoadManifests(paths []string, strict bool) error {
	for _, path := range paths {
		if err := r.loadManifest(path); err != nil {
			if strict {
				return err
			}
			logging.Section(config.GeneralSection).Errorf("skipping plugin manifest %s: %v", path, err)
		}
	}
	return nil
}

func (r *Registry) loadManifest(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parsing manifest: %w", err)
	}
	for _, entry := range m.Sources {
		if entry.Type == "" || entry.Base == "" {
			return fmt.Errorf("manifest %s: source entries need both type and base", path)
		}
		base, ok := r.Lookup(entry.Base)
		if !ok {
			return fmt.Errorf("manifest %s: unknown base type %q", path, entry.Base)
		}
		r.Register(entry.Type, &derivedSource{base: base, defaults: entry.Defaults})
	}
	return nil
}

// derivedSource wraps a base source, filling in default section keys
// the config did not set.
type derivedSource struct {
	base     Source
	defaults map[string]string
}

func (d *derivedSource) Name() string { return d.base.Name() }
func (d *derivedSource) Order() int   { return d.base.Order() }

func (d *derivedSource) NewGroup(section config.Section, cfg *config.Config, u *user.User) (*stats.Group, error) {
	merged := section
	merged.Keys = append([]config.KV(nil), section.Keys...)
	keys := make([]string, 0, len(d.defaults))
	for key := range d.defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, ok := section.Get(key); !ok {
			merged.Keys = append(merged.Keys, config.KV{Key: key, Value: d.defaults[key]})
		}
	}
	return d.base.NewGroup(merged, cfg, u)
}
