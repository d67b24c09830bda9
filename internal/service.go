package internal

import (
	"context"
	"fmt"
	"log/slog"
)

// OpenTracker returns a trackerFor function that opens the repository of a
// scope on disk and configures the tracker from its tickets.yaml. extra is
// applied after the config.
func OpenTracker(logger *slog.Logger, extra ...TrackerOption) func(Scope) (*Tracker, error) {
	return func(scope Scope) (*Tracker, error) {
		cfg, err := LoadConfig(scope)
		if err != nil {
			return nil, err
		}

		repo, err := NewGitRepository(scope)
		if err != nil {
			return nil, err
		}

		opts := append(cfg.TrackerOptions(), WithLogger(logger.With("repo", scope.Path)))
		opts = append(opts, extra...)
		return NewTracker(repo, opts...), nil
	}
}

// ItemService handles item operations
type ItemService struct {
	resolver   *ScopeResolver
	trackerFor func(Scope) (*Tracker, error)
	configFor  func(Scope) (*Config, error)
}

func NewItemService(
	resolver *ScopeResolver,
	trackerFor func(Scope) (*Tracker, error),
	configFor func(Scope) (*Config, error),
) *ItemService {
	return &ItemService{
		resolver:   resolver,
		trackerFor: trackerFor,
		configFor:  configFor,
	}
}

func (s *ItemService) tracker(path string) (*Tracker, Scope, error) {
	scope, err := s.resolver.Resolve(path)
	if err != nil {
		return nil, Scope{}, err
	}
	tracker, err := s.trackerFor(scope)
	if err != nil {
		return nil, Scope{}, fmt.Errorf("open tracker: %w", err)
	}
	return tracker, scope, nil
}

// Add stores a new item. An item without a kind gets the configured default
// kind.
func (s *ItemService) Add(ctx context.Context, in AddItem, path string) (Item, error) {
	tracker, scope, err := s.tracker(path)
	if err != nil {
		return Item{}, err
	}

	if !in.Kind.IsPresent() {
		cfg, err := s.configFor(scope)
		if err != nil {
			return Item{}, err
		}
		if cfg.Defaults.Kind != "" {
			in.Kind = Text(cfg.Defaults.Kind)
		}
	}

	return tracker.AddItem(ctx, in)
}

func (s *ItemService) Edit(ctx context.Context, in EditItem, path string) (Item, error) {
	tracker, _, err := s.tracker(path)
	if err != nil {
		return Item{}, err
	}
	return tracker.EditItem(ctx, in)
}

func (s *ItemService) Get(ctx context.Context, id, path string) (Item, error) {
	tracker, _, err := s.tracker(path)
	if err != nil {
		return Item{}, err
	}
	return tracker.GetItem(ctx, id)
}

func (s *ItemService) List(ctx context.Context, opts ListOptions, path string) (*Page[Item], error) {
	tracker, _, err := s.tracker(path)
	if err != nil {
		return nil, err
	}
	return tracker.ListItems(ctx, opts)
}

// Search returns the items matching every filter expression.
func (s *ItemService) Search(ctx context.Context, filters []string, path string) ([]Item, error) {
	matchers := make([]Matcher, 0, len(filters))
	for _, f := range filters {
		m, err := ParseFilter(f)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}

	tracker, _, err := s.tracker(path)
	if err != nil {
		return nil, err
	}

	return tracker.SearchItems(ctx, func(item Item) bool {
		for _, m := range matchers {
			if !m(item) {
				return false
			}
		}
		return true
	})
}

// HistoryService handles git history operations
type HistoryService struct {
	resolver   *ScopeResolver
	trackerFor func(Scope) (*Tracker, error)
}

func NewHistoryService(
	resolver *ScopeResolver,
	trackerFor func(Scope) (*Tracker, error),
) *HistoryService {
	return &HistoryService{
		resolver:   resolver,
		trackerFor: trackerFor,
	}
}

func (s *HistoryService) tracker(path string) (*Tracker, error) {
	scope, err := s.resolver.Resolve(path)
	if err != nil {
		return nil, err
	}
	tracker, err := s.trackerFor(scope)
	if err != nil {
		return nil, fmt.Errorf("open tracker: %w", err)
	}
	return tracker, nil
}

func (s *HistoryService) Log(ctx context.Context, opts CommitLogOptions, path string) (*Page[Commit], error) {
	tracker, err := s.tracker(path)
	if err != nil {
		return nil, err
	}
	return tracker.ListCommits(ctx, opts)
}

func (s *HistoryService) Items(ctx context.Context, depth int, path string) (*Page[Commit], error) {
	tracker, err := s.tracker(path)
	if err != nil {
		return nil, err
	}
	return tracker.ItemHistory(ctx, depth)
}

// RepositoryService creates repositories and manages their config.
type RepositoryService struct {
	resolver *ScopeResolver
}

func NewRepositoryService(resolver *ScopeResolver) *RepositoryService {
	return &RepositoryService{resolver: resolver}
}

func (s *RepositoryService) Init(path string) (Scope, error) {
	scope, err := NewScope(path)
	if err != nil {
		return Scope{}, err
	}
	if err := InitRepository(scope); err != nil {
		return Scope{}, err
	}
	return scope, nil
}

func (s *RepositoryService) Clone(ctx context.Context, url, path string) (Scope, error) {
	scope, err := NewScope(path)
	if err != nil {
		return Scope{}, err
	}
	if _, err := CloneRepository(ctx, url, scope.Path); err != nil {
		return Scope{}, err
	}
	return scope, nil
}

func (s *RepositoryService) Config(path string) (*Config, Scope, error) {
	scope, err := s.resolver.Resolve(path)
	if err != nil {
		return nil, Scope{}, err
	}
	cfg, err := LoadConfig(scope)
	if err != nil {
		return nil, Scope{}, err
	}
	return cfg, scope, nil
}

func (s *RepositoryService) SetConfig(key, value, path string) error {
	cfg, scope, err := s.Config(path)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	return SaveConfig(scope, cfg)
}
