package stats

import (
	"fmt"

	"github.com/spf13/pflag"

	"did/internal/errs"
	"did/internal/logging"
	"did/internal/render"
	"did/internal/user"
)

// Stat is a leaf work unit: one observable kind of activity in one
// source section.
type Stat struct {
	option   string
	name     string
	par      *Group
	flags    *Flags
	usr      *user.User
	fetch    Fetcher
	nameOnly bool

	// Items holds the fetched records; Err marks a failed fetch.
	Items []Item
	Err   bool

	enabled *bool
}

// NewStat builds a leaf with the given flag option, human label, and
// fetch function.
func NewStat(option, name string, fetch Fetcher) *Stat {
	return &Stat{option: option, name: name, fetch: fetch}
}

// NewEmpty builds a sentinel stat that renders only its name, used by
// header and footer sections.
func NewEmpty(option, name string) *Stat {
	return &Stat{option: option, name: name, nameOnly: true}
}

// Option returns the stable dash-separated identifier, which doubles
// as the CLI flag name.
func (s *Stat) Option() string { return s.option }

// Name returns the human label used as flag help and section header.
func (s *Stat) Name() string { return s.name }

func (s *Stat) setParent(g *Group) { s.par = g }

// SetUser binds the section-resolved identity; leaves without one
// inherit from the enclosing group.
func (s *Stat) SetUser(u *user.User) { s.usr = u }

// User resolves the effective identity, walking up the tree.
func (s *Stat) User() *user.User {
	if s.usr != nil {
		return s.usr
	}
	for g := s.par; g != nil; g = g.par {
		if g.usr != nil {
			return g.usr
		}
	}
	return nil
}

func (s *Stat) rootFlags() *Flags {
	if s.flags != nil {
		return s.flags
	}
	for g := s.par; g != nil; g = g.par {
		if g.flags != nil {
			return g.flags
		}
	}
	return nil
}

// section names the config section this stat belongs to: the option of
// its outermost enclosing group.
func (s *Stat) section() string {
	name := s.option
	for g := s.par; g != nil && g.par != nil; g = g.par {
		name = g.option
	}
	return name
}

// RegisterFlags contributes --<option> turning this stat on.
func (s *Stat) RegisterFlags(fs *pflag.FlagSet) {
	if f := s.rootFlags(); f != nil {
		f.Register(fs, s.option, s.name)
	}
}

// Enabled reports whether the stat participates in this run: true when
// its own flag or any enclosing group's flag was given, or when no
// selection flag was given at all. The answer is cached on first call
// so a run sees one consistent view.
func (s *Stat) Enabled() bool {
	if s.enabled != nil {
		return *s.enabled
	}
	v := s.computeEnabled()
	s.enabled = &v
	return v
}

func (s *Stat) computeEnabled() bool {
	f := s.rootFlags()
	if f == nil || !f.AnySet() {
		return true
	}
	if f.IsSet(s.option) {
		return true
	}
	for g := s.par; g != nil; g = g.par {
		if g.par != nil && f.IsSet(g.option) {
			return true
		}
	}
	return false
}

// Check runs the guarded fetch: enabled stats fetch their items, fetch
// failures are confined to this stat unless debug mode re-raises, and
// outside merge mode the result is shown immediately.
func (s *Stat) Check(ctx *Context) error {
	if !s.Enabled() {
		return nil
	}
	if s.nameOnly {
		if !ctx.Merge {
			s.Show(ctx)
		}
		return nil
	}
	if s.fetch == nil {
		return fmt.Errorf("%s: %w", s.option, errs.ErrNotImplemented)
	}

	sctx := *ctx
	if u := s.User(); u != nil {
		sctx.User = u
	}
	items, err := s.fetch(&sctx)
	if err != nil {
		s.Err = true
		logging.Section(s.section()).Errorf("%s: failed to fetch: %v", Dest(s.option), err)
		if ctx.Debug {
			return &errs.FetchError{Stat: s.option, Err: err}
		}
	} else {
		s.Items = items
	}
	if !ctx.Merge {
		s.Show(ctx)
	}
	return nil
}

// Show prints the section header and its items. Errored stats show "?"
// instead of a count; stats with nothing to report stay silent.
func (s *Stat) Show(ctx *Context) {
	if !s.Enabled() {
		return
	}
	if s.nameOnly {
		if !ctx.Brief {
			fmt.Fprintln(ctx.Out)
		}
		fmt.Fprintln(ctx.Out, render.ItemLine(ctx.Format, 0, ctx.Width, s.name, ""))
		return
	}
	if !s.Err && len(s.Items) == 0 {
		return
	}

	count := fmt.Sprintf("%d", len(s.Items))
	if s.Err {
		count = "? (error encountered)"
	}
	if !ctx.Brief {
		fmt.Fprintln(ctx.Out)
	}
	fmt.Fprintln(ctx.Out, render.Header(s.name, count))
	if ctx.Brief {
		return
	}
	for _, item := range s.Items {
		url, _ := item.URL()
		fmt.Fprintln(ctx.Out, render.ItemLine(ctx.Format, 0, ctx.Width, item.String(), url))
		if d, ok := item.(Detailed); ok && ctx.Verbose {
			for _, line := range d.Details() {
				fmt.Fprintln(ctx.Out, render.ItemLine(ctx.Format, 1, ctx.Width, line, ""))
			}
		}
	}
}

// Merge absorbs the other stat's items, skipping ones already present.
// Identity is the item's string form. An errored partner poisons the
// merged stat.
func (s *Stat) Merge(other Node) error {
	o, ok := other.(*Stat)
	if !ok || o.option != s.option {
		return fmt.Errorf("cannot merge %q with %q", s.option, other.Option())
	}
	seen := make(map[string]struct{}, len(s.Items))
	for _, item := range s.Items {
		seen[item.String()] = struct{}{}
	}
	for _, item := range o.Items {
		if _, dup := seen[item.String()]; dup {
			continue
		}
		seen[item.String()] = struct{}{}
		s.Items = append(s.Items, item)
	}
	s.Err = s.Err || o.Err
	return nil
}
