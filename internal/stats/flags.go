package stats

import (
	"strings"

	"github.com/spf13/pflag"
)

// Flags tracks the boolean selection flags contributed by stats and
// groups. One instance is shared between the sample tree used for flag
// registration and the per-user trees built after parsing, so every
// tree sees the same selection.
type Flags struct {
	vals map[string]*bool
}

// NewFlags returns an empty flag registry.
func NewFlags() *Flags {
	return &Flags{vals: map[string]*bool{}}
}

// Register adds --option to the flag set unless it is already known.
// Duplicate registrations share storage, which keeps re-building trees
// from the same config idempotent. An option the flag set already owns
// (a global flag) is left alone; pflag panics on redefinition.
func (f *Flags) Register(fs *pflag.FlagSet, option, help string) {
	if _, ok := f.vals[option]; ok {
		return
	}
	if fs.Lookup(option) != nil {
		return
	}
	f.vals[option] = fs.Bool(option, false, help)
}

// Set marks an option as selected without going through a flag set.
func (f *Flags) Set(option string) {
	v := true
	f.vals[option] = &v
}

// IsSet reports whether the option's flag was given.
func (f *Flags) IsSet(option string) bool {
	p, ok := f.vals[option]
	return ok && p != nil && *p
}

// AnySet reports whether any selection flag was given. When none is,
// the report-everything default applies and every stat is enabled.
func (f *Flags) AnySet() bool {
	for _, p := range f.vals {
		if p != nil && *p {
			return true
		}
	}
	return false
}

// Dest converts a flag option to its storage key form, dashes becoming
// underscores. Used as the dotted-path identity in logs.
func Dest(option string) string {
	return strings.ReplaceAll(option, "-", "_")
}
