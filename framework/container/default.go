package container

import "sync"

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide Registry, creating it on first call.
//
// Applications that can pass a *Registry down explicitly should prefer New;
// Default exists for code that has no composition root to receive one.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}
