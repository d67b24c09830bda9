package v1

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/4thel00z/tickets/internal"
)

// Client provides programmatic access to the item store of a repository.
type Client struct {
	items   *internal.ItemService
	history *internal.HistoryService
	path    string
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	resolver := internal.NewScopeResolver()
	if _, err := resolver.Resolve(cfg.path); err != nil {
		return nil, err
	}

	open := internal.OpenTracker(cfg.logger)

	return &Client{
		items:   internal.NewItemService(resolver, open, internal.LoadConfig),
		history: internal.NewHistoryService(resolver, open),
		path:    cfg.path,
	}, nil
}

// Add stores a new item and returns it with its generated ID.
func (c *Client) Add(ctx context.Context, in AddItem) (Item, error) {
	item, err := c.items.Add(ctx, in, c.path)
	if err != nil {
		return Item{}, fmt.Errorf("add: %w", err)
	}
	return item, nil
}

// Edit updates the present fields of an existing item.
func (c *Client) Edit(ctx context.Context, in EditItem) (Item, error) {
	item, err := c.items.Edit(ctx, in, c.path)
	if err != nil {
		return Item{}, fmt.Errorf("edit: %w", err)
	}
	return item, nil
}

// Get retrieves an item by ID.
func (c *Client) Get(ctx context.Context, id string) (Item, error) {
	return c.items.Get(ctx, id, c.path)
}

// List returns up to limit items starting at cursor. An empty cursor starts
// at the newest item; limit <= 0 returns everything.
func (c *Client) List(ctx context.Context, cursor string, limit int) (Page, error) {
	opts := internal.ListOptions{Limit: limit}
	if cursor != "" {
		if !plumbing.IsHash(cursor) {
			return Page{}, fmt.Errorf("list: invalid cursor %q", cursor)
		}
		opts.Cursor = plumbing.NewHash(cursor)
	}

	page, err := c.items.List(ctx, opts, c.path)
	if err != nil {
		return Page{}, fmt.Errorf("list: %w", err)
	}

	out := Page{Items: page.Results}
	if page.HasNext {
		out.Cursor = page.Cursor.String()
	}
	return out, nil
}

// Search returns the items matching every filter, e.g. "kind=bug" or
// "title~crash".
func (c *Client) Search(ctx context.Context, filters ...string) ([]Item, error) {
	items, err := c.items.Search(ctx, filters, c.path)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return items, nil
}

// History returns up to limit commits of the item history, newest first.
func (c *Client) History(ctx context.Context, limit int) ([]Commit, error) {
	page, err := c.history.Items(ctx, limit, c.path)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	commits := make([]Commit, 0, len(page.Results))
	for _, cm := range page.Results {
		commits = append(commits, Commit{
			Hash:      cm.Hash.String(),
			Message:   cm.Message,
			Author:    cm.Author,
			Timestamp: cm.Timestamp,
		})
	}
	return commits, nil
}

// Close releases any resources held by the client.
func (c *Client) Close() error {
	return nil
}
