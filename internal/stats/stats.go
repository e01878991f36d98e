// Package stats implements the report tree: leaf stats fetched from
// sources, groups composing them per config section, per-user roots,
// and the enable/check/show/merge semantics driving a report run.
package stats

import (
	"io"

	"github.com/spf13/pflag"

	"did/internal/dates"
	"did/internal/user"
)

// Item is one unit of reported activity. Merge identity is the String
// form; URL feeds markdown linkification only.
type Item interface {
	String() string
	URL() (string, bool)
}

// Detailed items expose secondary lines shown only with --verbose.
type Detailed interface {
	Details() []string
}

// Text is a plain item without a link.
type Text string

func (t Text) String() string      { return string(t) }
func (t Text) URL() (string, bool) { return "", false }

// Link is an item carrying a URL.
type Link struct {
	Text string
	Href string
}

func (l Link) String() string      { return l.Text }
func (l Link) URL() (string, bool) { return l.Href, l.Href != "" }

// Context carries the per-run state threaded through every check,
// fetch, and show call.
type Context struct {
	User    *user.User
	Window  dates.Window
	Format  string
	Width   int
	Brief   bool
	Verbose bool
	Debug   bool
	Merge   bool
	Total   bool
	Out     io.Writer
}

// Fetcher populates one stat's items. It is the only operation allowed
// to block on I/O.
type Fetcher func(ctx *Context) ([]Item, error)

// Node is one element of the report tree, either a leaf Stat or a Group.
type Node interface {
	Option() string
	Name() string
	Enabled() bool
	RegisterFlags(fs *pflag.FlagSet)
	Check(ctx *Context) error
	Show(ctx *Context)
	Merge(other Node) error

	setParent(g *Group)
}
