package github

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"did/internal/config"
	"did/internal/dates"
	"did/internal/render"
	"did/internal/stats"
	"did/internal/user"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/issues" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query().Get("q")
		var items []map[string]any
		switch {
		case q == "author:alice type:issue created:2023-09-25..2023-10-01":
			items = []map[string]any{
				{
					"number":         1,
					"title":          "Fix the frobnicator",
					"html_url":       "https://github.com/org/tool/issues/1",
					"repository_url": "https://api.github.com/repos/org/tool",
				},
				{
					"number":         7,
					"title":          "Update docs",
					"html_url":       "https://github.com/org/tool/issues/7",
					"repository_url": "https://api.github.com/repos/org/tool",
				},
			}
		}
		if err := json.NewEncoder(w).Encode(map[string]any{"items": items}); err != nil {
			t.Error(err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGroup(t *testing.T, base string) *stats.Group {
	t.Helper()
	cfg, err := config.LoadString(fmt.Sprintf("[general]\n\n[gh]\ntype = github\nurl = %s\n", base))
	if err != nil {
		t.Fatal(err)
	}
	section, _ := cfg.Section("gh")
	g, err := (&source{}).NewGroup(section, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func window(t *testing.T) dates.Window {
	t.Helper()
	since, _ := dates.Parse("2023-09-25")
	until, _ := dates.Parse("2023-10-02")
	return dates.Window{Since: since, Until: until, Label: "the week 39"}
}

func newContext(t *testing.T, u *user.User) (*stats.Context, *bytes.Buffer) {
	t.Helper()
	render.InitColor("0")
	var buf bytes.Buffer
	return &stats.Context{
		User:   u,
		Window: window(t),
		Format: "text",
		Width:  79,
		Out:    &buf,
	}, &buf
}

func TestGroupShape(t *testing.T) {
	g := newGroup(t, "https://example.org")
	want := []string{
		"gh-issues-created",
		"gh-issues-closed",
		"gh-pull-requests-created",
		"gh-pull-requests-closed",
		"gh-pull-requests-reviewed",
	}
	children := g.Children()
	if len(children) != len(want) {
		t.Fatalf("children = %d, want %d", len(children), len(want))
	}
	for i, option := range want {
		if children[i].Option() != option {
			t.Errorf("child %d = %q, want %q", i, children[i].Option(), option)
		}
	}
}

func TestNewGroupRequiresURL(t *testing.T) {
	cfg, err := config.LoadString("[general]\n\n[gh]\ntype = github\n")
	if err != nil {
		t.Fatal(err)
	}
	section, _ := cfg.Section("gh")
	if _, err := (&source{}).NewGroup(section, cfg, nil); err == nil {
		t.Fatal("missing url must fail")
	}
}

func TestIssuesCreated(t *testing.T) {
	srv := newServer(t)
	u, err := user.Parse("alice@example.org")
	if err != nil {
		t.Fatal(err)
	}
	g := newGroup(t, srv.URL)
	g.SetUser(u)
	ctx, buf := newContext(t, u)

	g.Check(ctx)

	out := buf.String()
	if want := "Issues created on gh: 2\n"; !bytes.Contains([]byte(out), []byte(want)) {
		t.Errorf("output missing %q:\n%s", want, out)
	}
	if want := "* org/tool#1 - Fix the frobnicator\n"; !bytes.Contains([]byte(out), []byte(want)) {
		t.Errorf("output missing %q:\n%s", want, out)
	}
}

func TestFetcherNeedsLogin(t *testing.T) {
	ctx, _ := newContext(t, nil)

	fetch := (&group{}).searchFetcher("author:%s type:issue created:%s..%s")
	if _, err := fetch(ctx); err == nil {
		t.Error("nil user must fail before hitting the network")
	}
}
