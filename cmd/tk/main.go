package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/4thel00z/tickets/internal"
	"github.com/charmbracelet/fang"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	ctx := context.Background()

	app := newApp()
	rootCmd := NewRootCmd(version, app)
	if err := fang.Execute(ctx, rootCmd); err != nil {
		os.Exit(1)
	}
}

type app struct {
	resolver   *internal.ScopeResolver
	itemSvc    *internal.ItemService
	historySvc *internal.HistoryService
	repoSvc    *internal.RepositoryService
	level      *slog.LevelVar
	logger     *slog.Logger
}

func newApp(opts ...internal.TrackerOption) *app {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	resolver := internal.NewScopeResolver()
	trackerFor := internal.OpenTracker(logger, opts...)

	return &app{
		resolver:   resolver,
		itemSvc:    internal.NewItemService(resolver, trackerFor, internal.LoadConfig),
		historySvc: internal.NewHistoryService(resolver, trackerFor),
		repoSvc:    internal.NewRepositoryService(resolver),
		level:      level,
		logger:     logger,
	}
}
