// Package container provides a small dependency-injection registry for Go.
//
// # Overview
//
// A Registry maps an abstraction (usually an interface) to a factory for a
// concrete implementation. The first Get for an abstraction runs its factory
// and caches the result; every later Get returns that same instance. The
// point is to let callers depend on interfaces while one composition root
// decides which concrete type backs each of them, which in turn makes
// swapping in mocks for tests a one-line change.
//
// Abstractions are identified by Key, derived from the type itself, so there
// are no string names to keep in sync.
//
// # Lifecycle
//
//  1. Create: r := container.New()
//  2. Bind:   container.Bind[Logger](r, func() Logger { return &ConsoleLogger{} })
//  3. Resolve anywhere r is reachable: logger, err := container.Get[Logger](r)
//
// container.Default() returns a process-wide Registry for code without a
// composition root. Reset empties a Registry between tests.
//
// # Bindings
//
//	// Constructor, checked by the compiler: ConsoleLogger must satisfy Logger
//	container.Bind[Logger](r, func() Logger { return NewConsoleLogger() })
//
//	// Constructor that can fail; the error reaches the caller of Get unchanged
//	container.BindFactory[Store](r, func() (Store, error) { return OpenStore(dsn) })
//
//	// Pre-built value
//	container.Instance[*config.Config](r, cfg)
//
// # Resolving
//
//	logger, err := container.Get[Logger](r)
//	if errors.Is(err, container.ErrNotRegistered) { ... }
//
//	// Panics instead of returning the error
//	logger := container.MustGet[Logger](r)
//
// Rebinding before the first Get changes the factory that will run. Rebinding
// after the first Get has no effect on the cached instance until Reset.
//
// # Service Providers
//
//	type LoggingProvider struct{ container.BaseProvider }
//
//	func (p *LoggingProvider) Register(r *container.Registry) {
//	    container.Bind[Logger](r, func() Logger { return NewConsoleLogger() })
//	}
//
//	providers := container.NewProviderRegistry(r)
//	providers.Register(&LoggingProvider{})
//	providers.Boot()
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool { return true }
//	func (p *HeavyProvider) Provides() []container.Key {
//	    return []container.Key{container.KeyOf[Heavy]()}
//	}
//	func (p *HeavyProvider) Register(r *container.Registry) {
//	    container.Bind[Heavy](r, newHeavy) // only called on first Get[Heavy]
//	}
package container
