package v1

import (
	"time"

	"github.com/4thel00z/tickets/internal"
)

// Item is one stored record. Its text fields distinguish absent, null and
// text values.
type Item = internal.Item

// Field is a tri-state text value: absent, null or text.
type Field = internal.Field

// AddItem holds the fields of a new item. Title must be non-empty text.
type AddItem = internal.AddItem

// EditItem names an item by ID; every present field replaces the stored one.
type EditItem = internal.EditItem

// Text returns a field holding s.
func Text(s string) Field { return internal.Text(s) }

// Null returns an explicitly null field.
func Null() Field { return internal.Null() }

var (
	ErrNotFound    = internal.ErrNotFound
	ErrInvalidItem = internal.ErrInvalidItem
	ErrNoMoreItems = internal.ErrNoMoreItems
)

// Page is one page of items, newest first.
type Page struct {
	Items []Item `json:"items"`
	// Cursor resumes the listing; empty on the last page.
	Cursor string `json:"cursor,omitempty"`
}

// Commit represents a commit of the item history.
type Commit struct {
	Hash      string    `json:"hash"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}
