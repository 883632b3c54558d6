package clock

import "cmp"

// Provider mints successive VectorClock values for a single actor and
// absorbs remote clocks on merge. It owns one mutable field, `current`,
// exactly the way middleware.Middleware owns DeliveredVersion/
// ReceivedVersion in the teacher repo — a single-actor piece of state, not
// safe to share between goroutines.
type Provider[A cmp.Ordered] struct {
	actor   A
	current VectorClock[A]
}

// NewProvider returns a Provider seeded with the empty clock for actor.
func NewProvider[A cmp.Ordered](actor A, strategy Strategy) *Provider[A] {
	return &Provider[A]{
		actor:   actor,
		current: New[A](strategy),
	}
}

// NewProviderFrom seeds a Provider with an already-existing clock, used
// when rehydrating a log from bytes (spec §4.3: the provider is seeded
// from the last operation's clock, or the baseline's, or a fresh one).
func NewProviderFrom[A cmp.Ordered](actor A, current VectorClock[A]) *Provider[A] {
	return &Provider[A]{actor: actor, current: current}
}

// Actor returns the actor this provider mints clocks for.
func (p *Provider[A]) Actor() A {
	return p.actor
}

// Current returns the most recently issued or merged clock.
func (p *Provider[A]) Current() VectorClock[A] {
	return p.current
}

// Next advances the provider's clock for its own actor and returns it.
func (p *Provider[A]) Next() VectorClock[A] {
	p.current = p.current.Increment(p.actor)
	return p.current
}

// Merge folds a remote clock into the provider's current clock so the
// provider never mints a clock a peer has already seen.
func (p *Provider[A]) Merge(remote VectorClock[A]) {
	p.current = p.current.Merge(remote)
}

// Clone returns an independent Provider seeded with the same actor and
// current clock. Mutating the clone never affects the original.
func (p *Provider[A]) Clone() *Provider[A] {
	return &Provider[A]{actor: p.actor, current: p.current}
}
