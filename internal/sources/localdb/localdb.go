// Package localdb reports activity stored in a local SQLite database,
// for build systems and journals that keep their records on disk. Every
// section key besides db and type is a named SQL query producing one
// stat; queries receive login, since, and until as bind parameters.
package localdb

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // register sqlite driver

	"did/internal/config"
	"did/internal/errs"
	"did/internal/registry"
	"did/internal/stats"
	"did/internal/user"
)

func init() {
	registry.Register("sqlite", &source{})
}

type source struct{}

func (s *source) Name() string { return "Local database activity" }
func (s *source) Order() int   { return stats.OrderDefault }

// reserved keys that never become queries.
var reserved = map[string]bool{"type": true, "db": true, "email": true, "login": true}

func (s *source) NewGroup(section config.Section, _ *config.Config, _ *user.User) (*stats.Group, error) {
	path, err := section.Require("db")
	if err != nil {
		return nil, err
	}

	g := &group{
		Group: *stats.NewGroup(section.Name, fmt.Sprintf("Records on %s", section.Name), stats.OrderDefault),
		path:  path,
	}

	queries := 0
	for _, kv := range section.Keys {
		if reserved[kv.Key] {
			continue
		}
		option := strings.ReplaceAll(kv.Key, "_", "-")
		g.Add(stats.NewStat(
			section.Name+"-"+option,
			fmt.Sprintf("%s on %s", label(kv.Key), section.Name),
			g.queryFetcher(kv.Value)))
		queries++
	}
	if queries == 0 {
		return nil, errs.Configf(section.Name, "no queries configured")
	}
	return &g.Group, nil
}

// group opens the database lazily, once, shared by its stats.
type group struct {
	stats.Group
	path string

	once    sync.Once
	db      *sql.DB
	openErr error
}

func (g *group) open() (*sql.DB, error) {
	g.once.Do(func() {
		g.db, g.openErr = sql.Open("sqlite", "file:"+g.path+"?mode=ro")
	})
	return g.db, g.openErr
}

// queryFetcher runs one configured query. Rows yield the item text in
// the first column and an optional URL in the second.
func (g *group) queryFetcher(query string) stats.Fetcher {
	return func(ctx *stats.Context) ([]stats.Item, error) {
		db, err := g.open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", g.path, err)
		}
		login := ""
		if ctx.User != nil {
			login = ctx.User.Login
		}

		rows, err := db.Query(query, login, ctx.Window.Since.String(), ctx.Window.Until.String())
		if err != nil {
			return nil, fmt.Errorf("query failed: %w", err)
		}
		defer func() { _ = rows.Close() }()

		cols, err := rows.Columns()
		if err != nil {
			return nil, err
		}

		var items []stats.Item
		for rows.Next() {
			var text, href sql.NullString
			dest := []any{&text}
			if len(cols) > 1 {
				dest = append(dest, &href)
				for i := 2; i < len(cols); i++ {
					dest = append(dest, new(sql.RawBytes))
				}
			}
			if err := rows.Scan(dest...); err != nil {
				return nil, err
			}
			if href.Valid && href.String != "" {
				items = append(items, stats.Link{Text: text.String, Href: href.String})
			} else {
				items = append(items, stats.Text(text.String))
			}
		}
		return items, rows.Err()
	}
}

// label turns a query key into its header words: "chroots_built" shows
// as "Chroots built".
func label(key string) string {
	words := strings.ReplaceAll(key, "_", " ")
	if words == "" {
		return words
	}
	return strings.ToUpper(words[:1]) + words[1:]
}
