package internal

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"
)

// Page is one window of a cursor-paginated listing.
type Page[T any] struct {
	Results []T
	HasNext bool
	// Cursor is the oid the next page starts at; zero when HasNext is false.
	Cursor plumbing.Hash

	next func(ctx context.Context) (*Page[T], error)
}

// Next fetches the following page. It fails with ErrNoMoreItems when
// HasNext is false.
func (p *Page[T]) Next(ctx context.Context) (*Page[T], error) {
	if !p.HasNext || p.next == nil {
		return nil, ErrNoMoreItems
	}
	return p.next(ctx)
}

func emptyPage[T any]() *Page[T] {
	return &Page[T]{Results: []T{}}
}
