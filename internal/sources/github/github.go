// Package github reports activity queried from the GitHub issue search
// API: issues and pull requests created, closed, and reviewed.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"did/internal/config"
	"did/internal/registry"
	"did/internal/rest"
	"did/internal/stats"
	"did/internal/user"
)

func init() {
	registry.Register("github", &source{})
}

type source struct{}

func (s *source) Name() string { return "GitHub activity" }
func (s *source) Order() int   { return stats.OrderDefault }

func (s *source) NewGroup(section config.Section, _ *config.Config, _ *user.User) (*stats.Group, error) {
	base, err := section.Require("url")
	if err != nil {
		return nil, err
	}
	headers := map[string]string{}
	if token, ok := section.Get("token"); ok && token != "" {
		headers["Authorization"] = "token " + token
	}

	g := &group{
		Group:  *stats.NewGroup(section.Name, fmt.Sprintf("Work on %s", section.Name), stats.OrderDefault),
		client: rest.NewClient(base, headers),
	}

	prefix := section.Name + "-"
	add := func(option, label, query string) {
		g.Add(stats.NewStat(prefix+option,
			fmt.Sprintf("%s on %s", label, section.Name),
			g.searchFetcher(query)))
	}
	add("issues-created", "Issues created", "author:%s type:issue created:%s..%s")
	add("issues-closed", "Issues closed", "assignee:%s type:issue closed:%s..%s")
	add("pull-requests-created", "Pull requests created", "author:%s type:pr created:%s..%s")
	add("pull-requests-closed", "Pull requests closed", "author:%s type:pr closed:%s..%s")
	add("pull-requests-reviewed", "Pull requests reviewed", "reviewed-by:%s type:pr updated:%s..%s")
	return &g.Group, nil
}

// group owns the HTTP client shared by this section's stats.
type group struct {
	stats.Group
	client *rest.Client
}

type issue struct {
	Number        int    `json:"number"`
	Title         string `json:"title"`
	HTMLURL       string `json:"html_url"`
	RepositoryURL string `json:"repository_url"`
}

type searchPage struct {
	Items []issue `json:"items"`
}

// searchFetcher builds the fetch for one search query template. The
// template takes login, since, and inclusive until.
func (g *group) searchFetcher(template string) stats.Fetcher {
	return func(ctx *stats.Context) ([]stats.Item, error) {
		if ctx.User == nil || ctx.User.Login == "" {
			return nil, fmt.Errorf("no login configured")
		}
		since, until := ctx.Window.Display()
		query := url.Values{}
		query.Set("q", fmt.Sprintf(template, ctx.User.Login, since, until))

		var items []stats.Item
		err := g.client.Pages(context.Background(), "/search/issues", query,
			func(page json.RawMessage) (int, error) {
				var sp searchPage
				if err := json.Unmarshal(page, &sp); err != nil {
					return 0, fmt.Errorf("parsing search page: %w", err)
				}
				for _, is := range sp.Items {
					items = append(items, stats.Link{
						Text: fmt.Sprintf("%s#%d - %s", repoName(is.RepositoryURL), is.Number, is.Title),
						Href: is.HTMLURL,
					})
				}
				return len(sp.Items), nil
			})
		if err != nil {
			return nil, err
		}
		return items, nil
	}
}

// repoName extracts "owner/repo" from an API repository URL.
func repoName(repoURL string) string {
	parts := strings.Split(strings.TrimRight(repoURL, "/"), "/")
	if len(parts) < 2 {
		return repoURL
	}
	return parts[len(parts)-2] + "/" + parts[len(parts)-1]
}
