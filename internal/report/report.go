// Package report drives a report run: resolve the time window, expand
// the user list, fan out over every configured source per user, and
// aggregate the team view.
package report

import (
	"fmt"
	"io"
	"os"

	"did/internal/config"
	"did/internal/dates"
	"did/internal/errs"
	"did/internal/registry"
	"did/internal/render"
	"did/internal/stats"
	"did/internal/user"
)

// Options carries the parsed CLI surface into a run.
type Options struct {
	Emails []string
	Since  string
	Until  string
	Words  []string // positional period keywords

	Format  string
	Width   int // -1 keeps the configured width, 0 disables truncation
	Brief   bool
	Verbose bool

	Total bool
	Merge bool
	Debug bool

	// Strict promotes per-section config errors to fatal; tests use it.
	Strict bool

	// Today overrides the reference day for period resolution in tests.
	Today dates.Date

	Out io.Writer
}

// Report is the run result: one tree per user plus the merged team
// tree. The CLI ignores it; tests inspect it.
type Report struct {
	PerUser []*stats.UserStats
	Team    *stats.UserStats
}

// Run executes the full report.
func Run(cfg *config.Config, reg *registry.Registry, flags *stats.Flags, opts Options) (*Report, error) {
	general, err := cfg.General()
	if err != nil {
		return nil, err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	today := opts.Today
	if today.IsZero() {
		today = dates.Today()
	}

	window, err := dates.Resolve(opts.Words, opts.Since, opts.Until, today)
	if err != nil {
		return nil, err
	}

	width := general.Width
	if opts.Width >= 0 {
		width = opts.Width
	}
	format := opts.Format
	if format == "" {
		format = render.FormatText
	}
	if !render.IsFormat(format) {
		return nil, errs.Usagef("unknown format %q, expected one of %v", format, render.Formats)
	}

	users, err := resolveUsers(cfg, general, opts.Emails)
	if err != nil {
		return nil, err
	}

	since, until := window.Display()
	fmt.Fprintln(out, render.ReportHeader(window.Label, since, until))

	ctx := &stats.Context{
		Window:  window,
		Format:  format,
		Width:   width,
		Brief:   opts.Brief,
		Verbose: opts.Verbose,
		Debug:   opts.Debug,
		Merge:   opts.Merge,
		Total:   opts.Total,
		Out:     out,
	}
	strict := opts.Strict || opts.Debug

	team, err := reg.BuildUserStats(cfg, nil, flags, strict)
	if err != nil {
		return nil, err
	}

	result := &Report{Team: team}
	for _, u := range users {
		tree, err := reg.BuildUserStats(cfg, u, flags, strict)
		if err != nil {
			return nil, err
		}
		if !opts.Merge {
			fmt.Fprintln(out, render.Banner(u.String(), general.Separator, general.SeparatorWidth))
		}
		uctx := *ctx
		uctx.User = u
		if err := tree.Check(&uctx); err != nil {
			return nil, err
		}
		if err := team.Merge(tree); err != nil {
			return nil, err
		}
		result.PerUser = append(result.PerUser, tree)
	}

	if opts.Merge || opts.Total {
		fmt.Fprintln(out, render.Banner("Total Report", general.Separator, general.SeparatorWidth))
		team.Show(ctx)
	}
	return result, nil
}

// resolveUsers expands the --email values, falling back to
// general.email, and applies the config-section identity aliases on
// top of any inline ones.
func resolveUsers(cfg *config.Config, general config.General, emails []string) ([]*user.User, error) {
	if len(emails) == 0 {
		emails = general.Emails
	}
	if len(emails) == 0 {
		return nil, errs.Configf(config.GeneralSection, "no email address provided")
	}
	users, err := user.ParseList(emails)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		for _, section := range cfg.Sections() {
			var alias user.Alias
			if v, ok := section.Get("email"); ok {
				alias.Email = v
			}
			if v, ok := section.Get("login"); ok {
				alias.Login = v
			}
			if alias.Email != "" || alias.Login != "" {
				u.SetAlias(section.Name, alias)
			}
		}
	}
	return users, nil
}
