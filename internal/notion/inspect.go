package notion

import (
	"context"
	"fmt"
	"net/http"
	"sort"
)

// Property is one column of a Notion database.
type Property struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// DatabaseInfo describes a database and the store columns it lacks.
type DatabaseInfo struct {
	Title      string     `json:"title"`
	Properties []Property `json:"properties"`
	Missing    []Property `json:"missing,omitempty"`
}

type databaseResponse struct {
	Title []struct {
		PlainText string `json:"plain_text"`
	} `json:"title"`
	Properties map[string]struct {
		Type string `json:"type"`
	} `json:"properties"`
}

// Required returns the columns the store writes, with their Notion types.
func (p Properties) Required() []Property {
	return []Property{
		{Name: p.Title, Type: "title"},
		{Name: p.URL, Type: "url"},
		{Name: p.Date, Type: "date"},
		{Name: p.Category, Type: "select"},
		{Name: p.Type, Type: "select"},
		{Name: p.Publisher, Type: "multi_select"},
	}
}

// Inspect fetches the database schema and reports required columns that are
// absent or have the wrong type.
func (c *Client) Inspect(ctx context.Context) (*DatabaseInfo, error) {
	var resp databaseResponse
	if err := c.do(ctx, http.MethodGet, "/v1/databases/"+c.databaseID, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching notion database: %w", err)
	}

	info := &DatabaseInfo{Title: "Untitled"}
	if len(resp.Title) > 0 && resp.Title[0].PlainText != "" {
		info.Title = resp.Title[0].PlainText
	}

	for name, prop := range resp.Properties {
		info.Properties = append(info.Properties, Property{Name: name, Type: prop.Type})
	}
	sort.Slice(info.Properties, func(i, j int) bool {
		return info.Properties[i].Name < info.Properties[j].Name
	})

	for _, req := range c.props.Required() {
		prop, ok := resp.Properties[req.Name]
		if !ok || prop.Type != req.Type {
			info.Missing = append(info.Missing, req)
		}
	}

	return info, nil
}
