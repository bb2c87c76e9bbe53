package artifacts

import (
	"github.com/patrickmn/go-cache"

	"github.com/okian/bookingrisk/pkg/logger"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithLogger sets a custom logger for the loader.
func WithLogger(l logger.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithCache shares a bundle cache between loaders.
func WithCache(c *cache.Cache) Option {
	return func(ld *Loader) {
		if c != nil {
			ld.cache = c
		}
	}
}
