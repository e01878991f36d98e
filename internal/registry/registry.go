// Package registry maps config section types to stat-group factories.
// Built-in sources register themselves at init time; extra registrations
// come from TOML manifests listed in general.plugins.
package registry

import (
	"sort"

	"did/internal/config"
	"did/internal/errs"
	"did/internal/logging"
	"did/internal/stats"
	"did/internal/user"
)

// Source builds the stat group for one config section of its type.
type Source interface {
	// Name is the human label describing the source kind.
	Name() string
	// Order places the section group within the report.
	Order() int
	// NewGroup validates the section and constructs its stats for the
	// given per-section user identity (nil for sample and team trees).
	NewGroup(section config.Section, cfg *config.Config, u *user.User) (*stats.Group, error)
}

// Registry is a type-name to source mapping. It is populated during
// startup and read-only afterwards.
type Registry struct {
	sources  map[string]Source
	reserved map[string]bool
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{sources: map[string]Source{}, reserved: map[string]bool{}}
}

// Default is the process-wide registry built-in sources register into.
var Default = New()

// Register binds a type name to a source. Re-registration logs a
// warning and the last registration wins.
func (r *Registry) Register(typ string, src Source) {
	if _, dup := r.sources[typ]; dup {
		logging.Section(typ).Warn("duplicate source registration, last one wins")
	}
	r.sources[typ] = src
}

// Register binds a type name into the default registry.
func Register(typ string, src Source) {
	Default.Register(typ, src)
}

// Reserve marks option names owned by the global CLI surface. A config
// section with a reserved name would shadow the global flag, so it is
// rejected with a config error.
func (r *Registry) Reserve(names ...string) {
	for _, name := range names {
		r.reserved[name] = true
	}
}

// Lookup returns the source registered for the type name.
func (r *Registry) Lookup(typ string) (Source, bool) {
	src, ok := r.sources[typ]
	return src, ok
}

// Types lists the registered type names, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.sources))
	for typ := range r.sources {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

// BuildUserStats instantiates one stat group per configured section
// against this registry, in section order, sorted by source order. A
// section with an unknown type or a failing factory is skipped with an
// error log unless strict is set; strict mode (and --debug) promotes
// the first section error to fatal.
func (r *Registry) BuildUserStats(cfg *config.Config, u *user.User, flags *stats.Flags, strict bool) (*stats.UserStats, error) {
	root := stats.NewUserStats(u, flags)
	for _, section := range cfg.Sections() {
		group, err := r.buildSection(cfg, section, u)
		if err != nil {
			if strict {
				return nil, err
			}
			logging.Section(section.Name).Errorf("skipping section: %v", err)
			continue
		}
		root.AddGroup(group)
	}
	return root, nil
}

func (r *Registry) buildSection(cfg *config.Config, section config.Section, u *user.User) (*stats.Group, error) {
	if r.reserved[section.Name] {
		return nil, errs.Configf(section.Name, "section name collides with the --%s flag", section.Name)
	}
	typ := section.Type()
	if typ == "" {
		return nil, errs.Configf(section.Name, "missing required key %q", "type")
	}
	src, ok := r.Lookup(typ)
	if !ok {
		return nil, errs.Configf(section.Name, "unknown type %q", typ)
	}
	var su *user.User
	if u != nil {
		su = u.Clone(section.Name)
	}
	group, err := src.NewGroup(section, cfg, su)
	if err != nil {
		return nil, err
	}
	group.SetUser(su)
	return group, nil
}
