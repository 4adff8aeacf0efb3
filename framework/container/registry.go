package container

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory builds a new instance of I. A returned error is passed to the
// caller of Get unchanged and nothing is cached.
type Factory[I any] func() (I, error)

// State is the lifecycle stage of a Key inside a Registry.
type State int

const (
	// Unbound means nothing was registered for the Key.
	Unbound State = iota
	// Deferred means a provider promised the Key but has not registered it yet.
	Deferred
	// Bound means a factory is registered but has not run successfully.
	Bound
	// Instantiated means the instance is cached and shared.
	Instantiated
)

func (s State) String() string {
	switch s {
	case Deferred:
		return "deferred"
	case Bound:
		return "bound"
	case Instantiated:
		return "instantiated"
	default:
		return "unbound"
	}
}

// Outcome describes how a single Get call ended.
type Outcome string

const (
	OutcomeCached        Outcome = "cached"
	OutcomeInstantiated  Outcome = "instantiated"
	OutcomeNotRegistered Outcome = "not_registered"
	OutcomeFailed        Outcome = "failed"
)

// ResolveEvent is delivered to OnResolve hooks after every Get.
type ResolveEvent struct {
	Key     Key
	Outcome Outcome
	Err     error
}

// BindingInfo is a read-only snapshot of one Key.
type BindingInfo struct {
	Key   Key
	State State
}

// slot is the untyped face of a cell, used for introspection only.
type slot interface {
	instantiated() bool
}

// cell holds the binding and the cached instance for one abstraction.
// Because a cell[I] is only ever stored under KeyOf[I](), reading it back
// with the same I cannot fail.
type cell[I any] struct {
	key Key

	// mu serialises construction and factory swaps.
	mu      sync.Mutex
	factory Factory[I]
	inst    atomic.Pointer[I]
}

func (c *cell[I]) instantiated() bool { return c.inst.Load() != nil }

func (c *cell[I]) get() (I, Outcome, error) {
	if p := c.inst.Load(); p != nil {
		return *p, OutcomeCached, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if p := c.inst.Load(); p != nil {
		return *p, OutcomeCached, nil
	}
	inst, err := c.factory()
	if err != nil {
		var zero I
		return zero, OutcomeFailed, err
	}
	if isNil(inst) {
		var zero I
		return zero, OutcomeFailed, fmt.Errorf("%w for [%s]", ErrNilInstance, c.key)
	}
	c.inst.Store(&inst)
	return inst, OutcomeInstantiated, nil
}

// rebind swaps the factory. A cached instance is left untouched.
func (c *cell[I]) rebind(f Factory[I]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factory = f
}

func (c *cell[I]) set(v I) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factory = func() (I, error) { return v, nil }
	c.inst.Store(&v)
}

// isNil reports a nil interface or a nil pointer held by one.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// ── Registry ──────────────────────────────────────────────────────────────────

// Registry maps abstractions to factories and caches one instance per
// abstraction, created on the first successful Get.
//
// All methods are safe for concurrent use. The internal lock is released
// while a factory runs, so factories may resolve other abstractions from the
// same Registry. A factory that resolves its own abstraction deadlocks.
type Registry struct {
	mu sync.Mutex

	// key → *cell[I]
	slots map[Key]slot

	// key → loader run on the first Get of a deferred key
	deferred map[Key]func()

	hooks []func(ResolveEvent)

	// run after Reset, outside mu
	resets []func()

	log zerolog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for debug events. The default discards.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		slots:    make(map[Key]slot),
		deferred: make(map[Key]func()),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers ctor as the constructor for I. The compiler checks that the
// concrete type returned by ctor satisfies I. A nil result fails the Get with
// ErrNilInstance and nothing is cached.
//
//	container.Bind[Logger](r, func() Logger { return &ConsoleLogger{} })
//
// Binding again replaces the constructor. If I was already instantiated the
// cached instance stays in place until Reset.
func Bind[I any](r *Registry, ctor func() I) {
	if ctor == nil {
		panic("container: nil constructor for [" + KeyOf[I]().String() + "]")
	}
	BindFactory(r, Factory[I](func() (I, error) { return ctor(), nil }))
}

// BindFactory is Bind for constructors that can fail.
func BindFactory[I any](r *Registry, f Factory[I]) {
	key := KeyOf[I]()
	if f == nil {
		panic("container: nil factory for [" + key.String() + "]")
	}

	r.mu.Lock()
	delete(r.deferred, key)
	s, ok := r.slots[key]
	if !ok {
		r.slots[key] = &cell[I]{key: key, factory: f}
		r.mu.Unlock()
		r.log.Debug().Str("interface", key.String()).Msg("binding registered")
		return
	}
	r.mu.Unlock()

	c := s.(*cell[I])
	c.rebind(f)
	r.log.Debug().
		Str("interface", key.String()).
		Bool("instantiated", c.instantiated()).
		Msg("binding replaced")
}

// Instance registers a pre-built value for I. Unlike Bind it replaces any
// cached instance.
func Instance[I any](r *Registry, v I) {
	key := KeyOf[I]()

	r.mu.Lock()
	delete(r.deferred, key)
	s, ok := r.slots[key]
	if !ok {
		c := &cell[I]{key: key}
		c.set(v)
		r.slots[key] = c
		r.mu.Unlock()
		r.log.Debug().Str("interface", key.String()).Msg("instance registered")
		return
	}
	r.mu.Unlock()

	s.(*cell[I]).set(v)
	r.log.Debug().Str("interface", key.String()).Msg("instance replaced")
}

// Defer registers a loader that runs on the first Get of key when nothing is
// bound for it yet. The loader is expected to Bind the key. Defer is a no-op
// for keys that are already bound.
func (r *Registry) Defer(key Key, load func()) {
	if load == nil {
		panic("container: nil loader for [" + key.String() + "]")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[key]; ok {
		return
	}
	r.deferred[key] = load
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get returns the shared instance of I, constructing it on first use.
//
// It fails with *NotRegisteredError when nothing is bound for I and returns
// factory errors unchanged.
func Get[I any](r *Registry) (I, error) {
	key := KeyOf[I]()

	c, err := lookup[I](r, key)
	if err != nil {
		r.log.Debug().Str("interface", key.String()).Msg("no binding")
		r.fire(ResolveEvent{Key: key, Outcome: OutcomeNotRegistered, Err: err})
		var zero I
		return zero, err
	}

	inst, outcome, err := c.get()
	if outcome == OutcomeInstantiated {
		r.log.Debug().Str("interface", key.String()).Msg("instance created")
	}
	r.fire(ResolveEvent{Key: key, Outcome: outcome, Err: err})
	return inst, err
}

// MustGet is like Get but panics with the error.
func MustGet[I any](r *Registry) I {
	inst, err := Get[I](r)
	if err != nil {
		panic(err)
	}
	return inst
}

func lookup[I any](r *Registry, key Key) (*cell[I], error) {
	r.mu.Lock()
	s, ok := r.slots[key]
	load := r.deferred[key]
	r.mu.Unlock()

	if !ok && load != nil {
		load()
		r.mu.Lock()
		s, ok = r.slots[key]
		r.mu.Unlock()
	}
	if !ok {
		return nil, &NotRegisteredError{Key: key}
	}
	return s.(*cell[I]), nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// State returns the lifecycle stage of key.
func (r *Registry) State(key Key) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state(key)
}

func (r *Registry) state(key Key) State {
	if s, ok := r.slots[key]; ok {
		if s.instantiated() {
			return Instantiated
		}
		return Bound
	}
	if _, ok := r.deferred[key]; ok {
		return Deferred
	}
	return Unbound
}

// IsBound reports whether anything (binding, instance or deferred provider) is
// registered for I.
func IsBound[I any](r *Registry) bool {
	return r.State(KeyOf[I]()) != Unbound
}

// Resolved reports whether I has a cached instance.
func Resolved[I any](r *Registry) bool {
	return r.State(KeyOf[I]()) == Instantiated
}

// Bindings returns a snapshot of every registered key, sorted by Key.String.
func (r *Registry) Bindings() []BindingInfo {
	r.mu.Lock()
	out := make([]BindingInfo, 0, len(r.slots)+len(r.deferred))
	for k := range r.slots {
		out = append(out, BindingInfo{Key: k, State: r.state(k)})
	}
	for k := range r.deferred {
		out = append(out, BindingInfo{Key: k, State: Deferred})
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Key.String() < out[j].Key.String() })
	return out
}

// Lookup finds a registered key by its qualified identifier or, when that is
// unambiguous, by its bare name.
func (r *Registry) Lookup(id string) (BindingInfo, bool) {
	var (
		match BindingInfo
		n     int
	)
	for _, b := range r.Bindings() {
		if b.Key.String() == id {
			return b, true
		}
		if b.Key.Name() == id {
			match = b
			n++
		}
	}
	return match, n == 1
}

// Reset drops every binding, cached instance and deferred loader, and
// forgets the providers of every ProviderRegistry built on r so they can be
// registered again. Resolve hooks are kept.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.slots = make(map[Key]slot)
	r.deferred = make(map[Key]func())
	resets := r.resets
	r.mu.Unlock()

	for _, fn := range resets {
		fn()
	}
	r.log.Debug().Msg("registry reset")
}

func (r *Registry) onReset(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets = append(r.resets, fn)
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// OnResolve registers a hook fired after every Get, successful or not.
func (r *Registry) OnResolve(fn func(ResolveEvent)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, fn)
}

func (r *Registry) fire(ev ResolveEvent) {
	r.mu.Lock()
	hooks := r.hooks
	r.mu.Unlock()
	for _, fn := range hooks {
		fn(ev)
	}
}
