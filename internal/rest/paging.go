package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPerPage is the page size requested from paginated endpoints.
const DefaultPerPage = 100

// maxPages caps pagination as a guard against endless upstream cursors.
const maxPages = 100

// Pages drives page-number pagination: the handler decodes one page
// from raw JSON and returns how many records it held; iteration stops
// when a page comes back short or empty.
func (c *Client) Pages(ctx context.Context, path string, query url.Values, handle func(page json.RawMessage) (int, error)) error {
	q := url.Values{}
	for key, values := range query {
		q[key] = values
	}
	q.Set("per_page", strconv.Itoa(DefaultPerPage))

	for page := 1; page <= maxPages; page++ {
		q.Set("page", strconv.Itoa(page))
		var raw json.RawMessage
		if _, err := c.GetJSON(ctx, path, q, &raw); err != nil {
			return err
		}
		n, err := handle(raw)
		if err != nil {
			return err
		}
		if n < DefaultPerPage {
			return nil
		}
	}
	return nil
}

// FollowLinks drives Link-header pagination: every response's
// rel="next" URL is fetched until the header disappears.
func (c *Client) FollowLinks(ctx context.Context, path string, query url.Values, handle func(page json.RawMessage) error) error {
	target := path
	q := query
	for page := 1; page <= maxPages; page++ {
		var raw json.RawMessage
		header, err := c.GetJSON(ctx, target, q, &raw)
		if err != nil {
			return err
		}
		if err := handle(raw); err != nil {
			return err
		}
		next := NextLink(header)
		if next == "" {
			return nil
		}
		target = next
		q = nil // the next link carries its own query
	}
	return nil
}

// NextLink extracts the rel="next" URL from an RFC 5988 Link header,
// empty when there is no next page.
func NextLink(header http.Header) string {
	for _, link := range header.Values("Link") {
		for _, part := range strings.Split(link, ",") {
			section := strings.Split(part, ";")
			if len(section) < 2 {
				continue
			}
			target := strings.Trim(strings.TrimSpace(section[0]), "<>")
			for _, param := range section[1:] {
				if strings.TrimSpace(param) == `rel="next"` {
					return target
				}
			}
		}
	}
	return ""
}
