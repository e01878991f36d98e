// Package items provides the config-driven sections that fetch nothing:
// header and footer sentinels pinned to the report extremities, and
// custom item lists written directly in the config file.
package items

import (
	"fmt"
	"sort"

	"did/internal/config"
	"did/internal/registry"
	"did/internal/stats"
	"did/internal/user"
)

func init() {
	registry.Register("header", &emptySource{order: stats.OrderHeader})
	registry.Register("footer", &emptySource{order: stats.OrderFooter})
	registry.Register("items", &itemsSource{})
}

// emptySource expands every key of its section into an empty stat that
// renders only its name, ordered lexicographically by key.
type emptySource struct {
	order int
}

func (s *emptySource) Name() string {
	if s.order == stats.OrderHeader {
		return "Header text"
	}
	return "Footer text"
}

func (s *emptySource) Order() int { return s.order }

func (s *emptySource) NewGroup(section config.Section, _ *config.Config, _ *user.User) (*stats.Group, error) {
	group := stats.NewGroup(section.Name, fmt.Sprintf("The %s section", section.Name), s.order)
	keys := make([]config.KV, 0, len(section.Keys))
	for _, kv := range section.Keys {
		if kv.Key != "type" {
			keys = append(keys, kv)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Key < keys[j].Key })
	for _, kv := range keys {
		group.Add(stats.NewEmpty(section.Name+"-"+kv.Key, kv.Value))
	}
	return group, nil
}

// itemsSource reports the custom items listed in its section, in
// config order.
type itemsSource struct{}

func (s *itemsSource) Name() string { return "Custom items" }
func (s *itemsSource) Order() int   { return stats.OrderDefault }

func (s *itemsSource) NewGroup(section config.Section, _ *config.Config, _ *user.User) (*stats.Group, error) {
	group := stats.NewGroup(section.Name, fmt.Sprintf("Custom %s items", section.Name), stats.OrderDefault)

	var items []stats.Item
	for _, kv := range section.Keys {
		if kv.Key == "type" {
			continue
		}
		items = append(items, stats.Text(kv.Value))
	}
	fetch := func(_ *stats.Context) ([]stats.Item, error) {
		return items, nil
	}
	group.Add(stats.NewStat(section.Name+"-items", fmt.Sprintf("Items on %s", section.Name), fetch))
	return group, nil
}
