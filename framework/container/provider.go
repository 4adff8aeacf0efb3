package container

import "sync"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the bindings of one subsystem.
//
// Register binds services and must not resolve anything. Boot runs after all
// eager providers are registered, so it may resolve freely.
//
//	type LoggingProvider struct{ container.BaseProvider }
//
//	func (p *LoggingProvider) Register(r *container.Registry) {
//	    container.Bind[logging.Logger](r, func() logging.Logger {
//	        return logging.NewConsoleLogger("app")
//	    })
//	}
type ServiceProvider interface {
	// Register binds services into the registry.
	Register(r *Registry)

	// Boot is called after all eager providers are registered.
	Boot(r *Registry)

	// Provides lists the keys a deferred provider binds.
	Provides() []Key

	// IsDeferred returns true if Register should wait until one of the
	// Provides() keys is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and
// IsDeferred.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Registry) {}
func (p *BaseProvider) Provides() []Key  { return nil }
func (p *BaseProvider) IsDeferred() bool { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders against one Registry,
// including deferred providers that load on first use.
type ProviderRegistry struct {
	mu         sync.Mutex
	app        *Registry
	eager      []ServiceProvider
	deferred   map[Key]ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a provider registry bound to app.
func NewProviderRegistry(app *Registry) *ProviderRegistry {
	r := &ProviderRegistry{
		app:        app,
		deferred:   make(map[Key]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
	}
	app.onReset(r.forget)
	return r
}

// Reset resets the underlying Registry, which also clears this provider
// registry: providers may be registered again and Boot runs again.
func (r *ProviderRegistry) Reset() {
	r.app.Reset()
}

func (r *ProviderRegistry) forget() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eager = nil
	r.deferred = make(map[Key]ServiceProvider)
	r.registered = make(map[ServiceProvider]bool)
	r.booted = false
}

// Register adds a provider. Eager providers are registered immediately (and
// booted immediately when Boot already ran). Registering the same provider
// twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		var once sync.Once
		load := func() { once.Do(func() { r.load(provider) }) }
		for _, key := range provider.Provides() {
			r.deferred[key] = provider
			r.app.Defer(key, load)
		}
		r.mu.Unlock()
		return
	}

	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	provider.Register(r.app)
	if booted {
		provider.Boot(r.app)
	}
}

// load registers a deferred provider on the first Get of one of its keys.
func (r *ProviderRegistry) load(provider ServiceProvider) {
	provider.Register(r.app)

	r.mu.Lock()
	for _, key := range provider.Provides() {
		delete(r.deferred, key)
	}
	booted := r.booted
	r.mu.Unlock()

	if booted {
		provider.Boot(r.app)
	}
}

// Boot calls Boot on all eager providers. Later calls are no-ops.
func (r *ProviderRegistry) Boot() {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return
	}
	r.booted = true
	eager := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range eager {
		provider.Boot(r.app)
	}
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}

// Pending returns the keys of deferred providers that have not loaded yet.
func (r *ProviderRegistry) Pending() []Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Key, 0, len(r.deferred))
	for k := range r.deferred {
		out = append(out, k)
	}
	return out
}
