package stats

import (
	"fmt"
	"sort"

	"github.com/spf13/pflag"

	"did/internal/user"
)

// Group ordering extremes: header sections pin to the top, footer
// sections to the bottom, everything else defaults in between.
const (
	OrderHeader  = 0
	OrderDefault = 500
	OrderFooter  = 900
)

// Group is a stat composing children, one per configured source
// section. Its own items collection is unused; children carry the data.
type Group struct {
	Stat
	order    int
	children []Node
}

// NewGroup builds an empty group. The option doubles as the meta-flag
// enabling every child at once.
func NewGroup(option, name string, order int) *Group {
	return &Group{Stat: Stat{option: option, name: name}, order: order}
}

// Order is used to sort sibling groups when composing the tree.
func (g *Group) Order() int { return g.order }

// SetUser binds the section identity every child inherits.
func (g *Group) SetUser(u *user.User) { g.usr = u }

// Add appends children in insertion order.
func (g *Group) Add(children ...Node) {
	for _, c := range children {
		c.setParent(g)
		g.children = append(g.children, c)
	}
}

// Children returns the ordered child nodes.
func (g *Group) Children() []Node { return g.children }

// sortChildren stable-sorts child groups by order, keeping config file
// order for ties.
func (g *Group) sortChildren() {
	sort.SliceStable(g.children, func(i, j int) bool {
		return childOrder(g.children[i]) < childOrder(g.children[j])
	})
}

func childOrder(n Node) int {
	if cg, ok := n.(*Group); ok {
		return cg.order
	}
	return OrderDefault
}

// RegisterFlags contributes the group meta-flag plus every child flag.
func (g *Group) RegisterFlags(fs *pflag.FlagSet) {
	if f := g.rootFlags(); f != nil && g.par != nil {
		f.Register(fs, g.option, g.name)
	}
	for _, c := range g.children {
		c.RegisterFlags(fs)
	}
}

// Check fans out over the children in order. A group has nothing of its
// own to fetch.
func (g *Group) Check(ctx *Context) error {
	for _, c := range g.children {
		if err := c.Check(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Show delegates to the children; each decides for itself whether it
// has anything to print.
func (g *Group) Show(ctx *Context) {
	for _, c := range g.children {
		c.Show(ctx)
	}
}

// Merge absorbs a parallel group child by child. The two trees must
// have the same shape: same child count, matching options in order.
func (g *Group) Merge(other Node) error {
	o, ok := other.(interface{ Children() []Node })
	if !ok {
		return fmt.Errorf("cannot merge %q with a leaf stat", g.option)
	}
	theirs := o.Children()
	if len(theirs) != len(g.children) {
		return fmt.Errorf("cannot merge %q: %d children vs %d", g.option, len(g.children), len(theirs))
	}
	for i, c := range g.children {
		if c.Option() != theirs[i].Option() {
			return fmt.Errorf("cannot merge %q: child %q vs %q", g.option, c.Option(), theirs[i].Option())
		}
		if err := c.Merge(theirs[i]); err != nil {
			return err
		}
	}
	return nil
}

// UserStats is the per-user report root: one child group per configured
// section, in source order.
type UserStats struct {
	Group
	User *user.User
}

// NewUserStats builds an empty root for the given user. A nil user
// builds the sample tree used for flag registration or the team tree.
func NewUserStats(u *user.User, flags *Flags) *UserStats {
	root := &UserStats{
		Group: Group{Stat: Stat{option: "all", name: "all configured sources"}},
		User:  u,
	}
	root.flags = flags
	root.usr = u
	return root
}

// AddGroup appends a section group and keeps the children ordered.
func (r *UserStats) AddGroup(g *Group) {
	r.Add(g)
	r.sortChildren()
}

// RegisterFlags registers the children only; the root itself has no
// flag, absence of any selection already means "everything".
func (r *UserStats) RegisterFlags(fs *pflag.FlagSet) {
	for _, c := range r.children {
		c.RegisterFlags(fs)
	}
}

// Merge absorbs another user's tree into this one.
func (r *UserStats) Merge(other *UserStats) error {
	return r.Group.Merge(&other.Group)
}
