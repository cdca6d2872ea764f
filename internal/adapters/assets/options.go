package assets

import (
	"image/color"

	"github.com/okian/evergreen/pkg/logger"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithDir resolves relative references against dir.
func WithDir(dir string) Option {
	return func(l *Loader) {
		l.dir = dir
	}
}

// WithTextureSize sets the square edge length textures are resized to.
func WithTextureSize(px int) Option {
	return func(l *Loader) {
		if px > 0 {
			l.size = px
		}
	}
}

// WithConcurrency bounds parallel loads during Preload.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithPlaceholderColor sets the fill of textures that failed to load.
func WithPlaceholderColor(c color.Color) Option {
	return func(l *Loader) {
		if c != nil {
			l.placeholder = c
		}
	}
}

// WithReader replaces file access, e.g. with an fs.FS lookup.
func WithReader(read func(path string) ([]byte, error)) Option {
	return func(l *Loader) {
		if read != nil {
			l.read = read
		}
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}
