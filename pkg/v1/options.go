package v1

import (
	"io"
	"log/slog"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	path   string
	logger *slog.Logger
}

// WithPath points the client at the repository containing dir. The
// current directory is used by default.
func WithPath(dir string) Option {
	return func(c *clientConfig) {
		c.path = dir
	}
}

// WithLogger sets the logger for repository operations. Logging is
// discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
