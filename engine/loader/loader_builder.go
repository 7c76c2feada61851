package loader

import (
	"time"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithBaseDir is an option builder that sets the directory relative sources resolve against.
// Ignored when WithSource is also given.
//
// Parameters:
//   - dir: the base directory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the base directory option to a loader
func WithBaseDir(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.baseDir = dir
	}
}

// WithHTTPTimeout is an option builder that bounds each remote fetch.
// Ignored when WithSource is also given.
//
// Parameters:
//   - d: the timeout
//
// Returns:
//   - LoaderBuilderOption: a function that applies the timeout option to a loader
func WithHTTPTimeout(d time.Duration) LoaderBuilderOption {
	return func(l *loader) {
		if d > 0 {
			l.httpTimeout = d
		}
	}
}

// WithWorkers is an option builder that sets the maximum number of concurrent loads.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithSource is an option builder that replaces the file/HTTP fetcher.
//
// Parameters:
//   - src: the fetcher
//
// Returns:
//   - LoaderBuilderOption: a function that applies the source option to a loader
func WithSource(src Source) LoaderBuilderOption {
	return func(l *loader) {
		l.source = src
	}
}

// WithModelBackend is an option builder that replaces the glTF model backend.
//
// Parameters:
//   - b: the backend
//
// Returns:
//   - LoaderBuilderOption: a function that applies the backend option to a loader
func WithModelBackend(b ModelBackend) LoaderBuilderOption {
	return func(l *loader) {
		if b != nil {
			l.backend = b
		}
	}
}
