package notion

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hoanghai1803/newsclip/internal/models"
)

// Properties names the database columns written by the store.
type Properties struct {
	Title     string
	URL       string
	Date      string
	Category  string
	Type      string
	Publisher string
}

// DefaultProperties returns the column names of the archive database.
func DefaultProperties() Properties {
	return Properties{
		Title:     "이름",
		URL:       "URL",
		Date:      "날짜",
		Category:  "분야",
		Type:      "유형",
		Publisher: "언론사",
	}
}

type queryRequest struct {
	Filter   map[string]any `json:"filter"`
	PageSize int            `json:"page_size,omitempty"`
}

type queryResponse struct {
	Results []struct {
		ID string `json:"id"`
	} `json:"results"`
}

// Ping checks that the database is reachable with the configured token.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/v1/databases/"+c.databaseID, nil, nil); err != nil {
		return fmt.Errorf("probing notion database: %w", err)
	}
	return nil
}

// TitleExists reports whether a page with exactly this title exists.
func (c *Client) TitleExists(ctx context.Context, title string) (bool, error) {
	ids, err := c.query(ctx, map[string]any{
		"property": c.props.Title,
		"title":    map[string]string{"equals": title},
	})
	if err != nil {
		return false, fmt.Errorf("querying title: %w", err)
	}
	return len(ids) > 0, nil
}

// PageIDByURL returns the id of the first page whose URL property equals
// link, or ErrNotFound.
func (c *Client) PageIDByURL(ctx context.Context, link string) (string, error) {
	ids, err := c.query(ctx, map[string]any{
		"property": c.props.URL,
		"url":      map[string]string{"equals": link},
	})
	if err != nil {
		return "", fmt.Errorf("querying url: %w", err)
	}
	if len(ids) == 0 {
		return "", ErrNotFound
	}
	return ids[0], nil
}

func (c *Client) query(ctx context.Context, filter map[string]any) ([]string, error) {
	var resp queryResponse
	req := queryRequest{Filter: filter, PageSize: 1}
	if err := c.do(ctx, http.MethodPost, "/v1/databases/"+c.databaseID+"/query", req, &resp); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

type createPageRequest struct {
	Parent     map[string]string `json:"parent"`
	Properties map[string]any    `json:"properties"`
	Children   []block           `json:"children,omitempty"`
}

// Save creates a page for the record.
func (c *Client) Save(ctx context.Context, rec models.Record) error {
	req := createPageRequest{
		Parent:     map[string]string{"database_id": c.databaseID},
		Properties: c.pageProperties(rec),
		Children:   buildChildren(rec),
	}
	if err := c.do(ctx, http.MethodPost, "/v1/pages", req, nil); err != nil {
		return fmt.Errorf("creating notion page: %w", err)
	}
	return nil
}

// UpdateClassification refreshes the category and type of an existing page,
// and the title when rec has one, then appends the summary and link blocks.
func (c *Client) UpdateClassification(ctx context.Context, pageID string, rec models.Record) error {
	props := map[string]any{
		c.props.Category: selectProperty(rec.Category),
		c.props.Type:     selectProperty(rec.Type),
	}
	if rec.Title != "" {
		props[c.props.Title] = titleProperty(rec.Title)
	}
	if err := c.do(ctx, http.MethodPatch, "/v1/pages/"+pageID, map[string]any{"properties": props}, nil); err != nil {
		return fmt.Errorf("updating notion page: %w", err)
	}

	update := rec
	update.Description = ""
	children := buildChildren(update)
	if err := c.do(ctx, http.MethodPatch, "/v1/blocks/"+pageID+"/children", map[string]any{"children": children}, nil); err != nil {
		return fmt.Errorf("appending notion blocks: %w", err)
	}
	return nil
}

func (c *Client) pageProperties(rec models.Record) map[string]any {
	publishers := make([]map[string]string, 0, len(rec.Publishers))
	for _, p := range rec.Publishers {
		if name := optionName(p); name != "" {
			publishers = append(publishers, map[string]string{"name": name})
		}
	}
	if len(publishers) == 0 {
		publishers = append(publishers, map[string]string{"name": models.Unknown})
	}

	return map[string]any{
		c.props.Title:     titleProperty(rec.Title),
		c.props.URL:       map[string]string{"url": rec.Link},
		c.props.Date:      map[string]any{"date": map[string]string{"start": rec.Day()}},
		c.props.Category:  selectProperty(rec.Category),
		c.props.Type:      selectProperty(rec.Type),
		c.props.Publisher: map[string]any{"multi_select": publishers},
	}
}

func titleProperty(title string) map[string]any {
	return map[string]any{"title": []richText{plainText(title)}}
}

func selectProperty(name string) map[string]any {
	return map[string]any{"select": map[string]string{"name": optionName(name)}}
}

// optionName makes s acceptable as a select option; Notion rejects commas.
func optionName(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ",", " "))
}
