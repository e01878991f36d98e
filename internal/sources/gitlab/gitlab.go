// Package gitlab reports activity queried from the GitLab events API,
// following Link-header pagination.
package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"did/internal/config"
	"did/internal/registry"
	"did/internal/rest"
	"did/internal/stats"
	"did/internal/user"
)

func init() {
	registry.Register("gitlab", &source{})
}

type source struct{}

func (s *source) Name() string { return "GitLab activity" }
func (s *source) Order() int   { return stats.OrderDefault }

func (s *source) NewGroup(section config.Section, _ *config.Config, _ *user.User) (*stats.Group, error) {
	base, err := section.Require("url")
	if err != nil {
		return nil, err
	}
	headers := map[string]string{}
	if token, ok := section.Get("token"); ok && token != "" {
		headers["PRIVATE-TOKEN"] = token
	}

	g := &group{
		Group:  *stats.NewGroup(section.Name, fmt.Sprintf("Work on %s", section.Name), stats.OrderDefault),
		client: rest.NewClient(base, headers),
	}

	prefix := section.Name + "-"
	add := func(option, label, action, targetType string) {
		g.Add(stats.NewStat(prefix+option,
			fmt.Sprintf("%s on %s", label, section.Name),
			g.eventsFetcher(action, targetType)))
	}
	add("issues-created", "Issues created", "created", "Issue")
	add("merge-requests-created", "Merge requests created", "created", "MergeRequest")
	add("comments-added", "Comments added", "commented", "Note")
	return &g.Group, nil
}

type group struct {
	stats.Group
	client *rest.Client
}

type event struct {
	ActionName  string `json:"action_name"`
	TargetType  string `json:"target_type"`
	TargetTitle string `json:"target_title"`
	TargetIID   int    `json:"target_iid"`
}

// eventsFetcher builds the fetch for one (action, target type) pair.
// The events endpoint takes exclusive after/before dates.
func (g *group) eventsFetcher(action, targetType string) stats.Fetcher {
	return func(ctx *stats.Context) ([]stats.Item, error) {
		if ctx.User == nil || ctx.User.Login == "" {
			return nil, fmt.Errorf("no login configured")
		}
		query := url.Values{}
		query.Set("action", action)
		query.Set("target_type", targetType)
		query.Set("after", ctx.Window.Since.Add(-1).String())
		query.Set("before", ctx.Window.Until.String())
		query.Set("per_page", fmt.Sprint(rest.DefaultPerPage))

		path := fmt.Sprintf("/users/%s/events", url.PathEscape(ctx.User.Login))
		var items []stats.Item
		err := g.client.FollowLinks(context.Background(), path, query,
			func(page json.RawMessage) error {
				var events []event
				if err := json.Unmarshal(page, &events); err != nil {
					return fmt.Errorf("parsing events page: %w", err)
				}
				for _, ev := range events {
					text := ev.TargetTitle
					if ev.TargetIID > 0 {
						text = fmt.Sprintf("#%d - %s", ev.TargetIID, ev.TargetTitle)
					}
					items = append(items, stats.Text(text))
				}
				return nil
			})
		if err != nil {
			return nil, err
		}
		return items, nil
	}
}
