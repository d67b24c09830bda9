package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultRef holds the item history. It lives outside refs/heads so user
// branches never see it.
const DefaultRef = "refs/tickets/main"

const DefaultReadConcurrency = 4

// Tracker stores items as blobs of a single tree committed onto a dedicated
// ref. Each mutation reads the current tree, changes one entry and commits
// the complete new tree on top of the previous tip.
//
// A Tracker assumes it is the only writer of its ref. Two trackers mutating
// the same ref concurrently both build on the same tip and the last ref
// update wins; the other change is lost.
type Tracker struct {
	objects         ObjectStore
	ref             string
	author          Signature
	readConcurrency int
	now             func() time.Time
	newID           func() string
	logger          *slog.Logger
}

type TrackerOption func(*Tracker)

func WithRef(ref string) TrackerOption {
	return func(t *Tracker) {
		if ref != "" {
			t.ref = ref
		}
	}
}

func WithAuthor(author Signature) TrackerOption {
	return func(t *Tracker) { t.author = author }
}

// WithReadConcurrency bounds the number of blobs read in parallel while
// building a page.
func WithReadConcurrency(n int) TrackerOption {
	return func(t *Tracker) {
		if n > 0 {
			t.readConcurrency = n
		}
	}
}

func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

func WithIDGenerator(newID func() string) TrackerOption {
	return func(t *Tracker) { t.newID = newID }
}

func WithLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) { t.logger = logger }
}

func NewTracker(objects ObjectStore, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		objects:         objects,
		ref:             DefaultRef,
		author:          Signature{Name: DefaultAuthor, Email: DefaultEmail},
		readConcurrency: DefaultReadConcurrency,
		now:             time.Now,
		newID:           uuid.NewString,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Ref returns the name of the ref the tracker commits to.
func (t *Tracker) Ref() string {
	return t.ref
}

type ListOptions struct {
	// Cursor is the oid of the first entry to return. Zero starts at the
	// newest item.
	Cursor plumbing.Hash
	// Limit caps the page size; zero or less returns everything.
	Limit int
}

func (t *Tracker) AddItem(ctx context.Context, in AddItem) (Item, error) {
	if err := in.validate(); err != nil {
		return Item{}, err
	}

	item := Item{
		ID:          t.newID(),
		Title:       in.Title,
		Description: in.Description,
		Kind:        in.Kind,
	}

	tip, prior, err := t.current(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Item{}, err
	}

	entry, err := t.writeEntry(ctx, item, prior)
	if err != nil {
		return Item{}, err
	}

	entries := append([]object.TreeEntry{entry}, prior...)
	if err := t.commit(ctx, entries, tip, "add item "+item.ID); err != nil {
		return Item{}, err
	}

	return item, nil
}

// EditItem replaces the stored item with in merged on top of it. The edited
// item moves to the front of the listing.
func (t *Tracker) EditItem(ctx context.Context, in EditItem) (Item, error) {
	if err := in.validate(); err != nil {
		return Item{}, err
	}

	tip, entries, err := t.current(ctx)
	if err != nil {
		return Item{}, err
	}

	old, err := findEntry(entries, in.ID)
	if err != nil {
		return Item{}, err
	}

	stored, err := t.readItem(ctx, old.Hash)
	if err != nil {
		return Item{}, err
	}
	merged := in.merge(stored)

	entry, err := t.writeEntry(ctx, merged, entries)
	if err != nil {
		return Item{}, err
	}

	next := []object.TreeEntry{entry}
	for _, e := range entries {
		if e.Hash != old.Hash {
			next = append(next, e)
		}
	}

	if err := t.commit(ctx, next, tip, "edit item "+merged.ID); err != nil {
		return Item{}, err
	}

	return merged, nil
}

func (t *Tracker) GetItem(ctx context.Context, id string) (Item, error) {
	_, entries, err := t.current(ctx)
	if errors.Is(err, ErrNotFound) {
		return Item{}, &NotFoundError{Kind: "item", Name: id}
	}
	if err != nil {
		return Item{}, err
	}

	entry, err := findEntry(entries, id)
	if err != nil {
		return Item{}, err
	}

	return t.readItem(ctx, entry.Hash)
}

// ListItems returns items newest first. An empty store yields an empty
// terminal page, and so does a cursor that is not part of the current tree.
func (t *Tracker) ListItems(ctx context.Context, opts ListOptions) (*Page[Item], error) {
	_, entries, err := t.current(ctx)
	if errors.Is(err, ErrNotFound) {
		return emptyPage[Item](), nil
	}
	if err != nil {
		return nil, err
	}

	ordered := orderEntries(entries)

	if !opts.Cursor.IsZero() {
		start := -1
		for i, e := range ordered {
			if e.Hash == opts.Cursor {
				start = i
				break
			}
		}
		if start < 0 {
			t.logger.Debug("cursor not in tree", "ref", t.ref, "cursor", opts.Cursor.String())
			return emptyPage[Item](), nil
		}
		ordered = ordered[start:]
	}

	var cursor plumbing.Hash
	if opts.Limit > 0 && len(ordered) > opts.Limit {
		cursor = ordered[opts.Limit].Hash
		ordered = ordered[:opts.Limit]
	}

	results, err := t.readItems(ctx, ordered)
	if err != nil {
		return nil, err
	}

	page := &Page[Item]{Results: results}
	if !cursor.IsZero() {
		limit := opts.Limit
		page.HasNext = true
		page.Cursor = cursor
		page.next = func(ctx context.Context) (*Page[Item], error) {
			return t.ListItems(ctx, ListOptions{Cursor: cursor, Limit: limit})
		}
	}

	return page, nil
}

// SearchItems scans every item and keeps the ones m accepts, in listing
// order.
func (t *Tracker) SearchItems(ctx context.Context, m Matcher) ([]Item, error) {
	page, err := t.ListItems(ctx, ListOptions{})
	if err != nil {
		return nil, err
	}

	matches := make([]Item, 0, len(page.Results))
	for _, item := range page.Results {
		if m(item) {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

// current returns the tip of the ref and its tree entries. An unborn ref
// returns a zero tip, no entries and an error matching ErrNotFound.
func (t *Tracker) current(ctx context.Context) (plumbing.Hash, []object.TreeEntry, error) {
	tip, err := t.objects.ResolveRef(ctx, t.ref)
	if err != nil {
		return plumbing.ZeroHash, nil, err
	}

	commit, err := t.objects.ReadCommit(ctx, tip)
	if err != nil {
		return plumbing.ZeroHash, nil, fmt.Errorf("read tip of %s: %w", t.ref, err)
	}

	entries, err := t.objects.ReadTree(ctx, commit.Tree)
	if err != nil {
		return plumbing.ZeroHash, nil, fmt.Errorf("read tree of %s: %w", t.ref, err)
	}

	return tip, entries, nil
}

func (t *Tracker) writeEntry(ctx context.Context, item Item, existing []object.TreeEntry) (object.TreeEntry, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return object.TreeEntry{}, fmt.Errorf("marshal item: %w", err)
	}

	hash, err := t.objects.WriteBlob(ctx, data)
	if err != nil {
		return object.TreeEntry{}, fmt.Errorf("write item blob: %w", err)
	}

	return object.TreeEntry{
		Name: GeneratePath(item.ID, t.stamp(existing)),
		Mode: filemode.Regular,
		Hash: hash,
	}, nil
}

// stamp returns the insertion time for a new entry: now, pushed past the
// newest existing entry so insertion order survives same-millisecond writes
// and clock skew.
func (t *Tracker) stamp(existing []object.TreeEntry) time.Time {
	at := t.now()
	newest := int64(-1)
	for _, e := range existing {
		if p, err := ParsePath(e.Name); err == nil && p.Timestamp > newest {
			newest = p.Timestamp
		}
	}
	if at.UnixMilli() <= newest {
		return time.UnixMilli(newest + 1)
	}
	return at
}

func (t *Tracker) commit(ctx context.Context, entries []object.TreeEntry, parent plumbing.Hash, message string) error {
	tree, err := t.objects.WriteTree(ctx, entries)
	if err != nil {
		return fmt.Errorf("write tree: %w", err)
	}

	var parents []plumbing.Hash
	if !parent.IsZero() {
		parents = []plumbing.Hash{parent}
	}

	hash, err := t.objects.Commit(ctx, CommitOptions{
		Tree:    tree,
		Parents: parents,
		Message: message,
		Author:  t.author,
	})
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if err := t.objects.WriteRef(ctx, t.ref, hash, true); err != nil {
		return fmt.Errorf("update %s: %w", t.ref, err)
	}

	if parent.IsZero() {
		t.logger.Info("created items ref", "ref", t.ref, "commit", hash.String())
	}
	t.logger.Debug("committed items",
		"ref", t.ref,
		"commit", hash.String(),
		"entries", len(entries),
		"message", message,
	)
	return nil
}

func (t *Tracker) readItem(ctx context.Context, hash plumbing.Hash) (Item, error) {
	data, err := t.objects.ReadBlob(ctx, hash)
	if err != nil {
		return Item{}, fmt.Errorf("read item blob: %w", err)
	}

	var item Item
	if err := json.Unmarshal(data, &item); err != nil {
		return Item{}, fmt.Errorf("decode item %s: %w", hash, err)
	}
	return item, nil
}

func (t *Tracker) readItems(ctx context.Context, entries []object.TreeEntry) ([]Item, error) {
	items := make([]Item, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.readConcurrency)
	for i, e := range entries {
		g.Go(func() error {
			item, err := t.readItem(gctx, e.Hash)
			if err != nil {
				return err
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return items, nil
}

func findEntry(entries []object.TreeEntry, id string) (object.TreeEntry, error) {
	for _, e := range entries {
		p, err := ParsePath(e.Name)
		if err != nil {
			continue
		}
		if p.ID == id {
			return e, nil
		}
	}
	return object.TreeEntry{}, &NotFoundError{Kind: "item", Name: id}
}

// orderEntries drops entries that are not items and sorts the rest newest
// first.
func orderEntries(entries []object.TreeEntry) []object.TreeEntry {
	type decoded struct {
		entry object.TreeEntry
		path  Path
	}

	items := make([]decoded, 0, len(entries))
	for _, e := range entries {
		p, err := ParsePath(e.Name)
		if err != nil || e.Mode != filemode.Regular {
			continue
		}
		items = append(items, decoded{entry: e, path: p})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[j].path.Less(items[i].path)
	})

	ordered := make([]object.TreeEntry, len(items))
	for i, d := range items {
		ordered[i] = d.entry
	}
	return ordered
}
