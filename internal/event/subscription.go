package event

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// SubscriptionState is where a subscription is in its life.
type SubscriptionState int32

const (
	// SubscriptionStateActive subscriptions receive every emission.
	SubscriptionStateActive SubscriptionState = iota

	// SubscriptionStatePaused subscriptions are skipped until resumed.
	SubscriptionStatePaused

	// SubscriptionStateCancelled subscriptions are detached for good.
	SubscriptionStateCancelled
)

func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStateActive:
		return "active"
	case SubscriptionStatePaused:
		return "paused"
	case SubscriptionStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Subscription is the handle of a listener attached to a signal.
// Cancel is idempotent and safe to call from inside the listener.
type Subscription interface {
	ID() string
	// Signal names the signal the listener is attached to.
	Signal() string
	State() SubscriptionState
	IsActive() bool
	Pause()
	Resume()
	Cancel()
}

// SubscriptionConfig holds the per-listener delivery settings.
type SubscriptionConfig struct {
	// Priority orders listeners; lower runs first.
	Priority Priority
	// Once cancels the subscription after its first delivery.
	Once bool
}

// DefaultSubscriptionConfig returns normal priority, repeated delivery.
func DefaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{Priority: PriorityNormal}
}

// SubscriptionOption adjusts a SubscriptionConfig.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the listener priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithOnce makes the listener fire at most once.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}

type subscription[T any] struct {
	id       string
	signal   *Signal[T]
	listener Listener[T]
	filter   FilterFunc[T]
	config   SubscriptionConfig
	state    atomic.Int32
}

func newSubscription[T any](s *Signal[T], l Listener[T], opts ...SubscriptionOption) *subscription[T] {
	config := DefaultSubscriptionConfig()
	for _, opt := range opts {
		opt(&config)
	}
	sub := &subscription[T]{
		id:       uuid.NewString(),
		signal:   s,
		listener: l,
		config:   config,
	}
	sub.state.Store(int32(SubscriptionStateActive))
	return sub
}

func (s *subscription[T]) ID() string {
	return s.id
}

func (s *subscription[T]) Signal() string {
	return s.signal.name
}

func (s *subscription[T]) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

func (s *subscription[T]) IsActive() bool {
	return s.State() == SubscriptionStateActive
}

func (s *subscription[T]) Pause() {
	s.state.CompareAndSwap(int32(SubscriptionStateActive), int32(SubscriptionStatePaused))
}

func (s *subscription[T]) Resume() {
	s.state.CompareAndSwap(int32(SubscriptionStatePaused), int32(SubscriptionStateActive))
}

func (s *subscription[T]) Cancel() {
	if SubscriptionState(s.state.Swap(int32(SubscriptionStateCancelled))) == SubscriptionStateCancelled {
		return
	}
	s.signal.detach(s)
}

func (s *subscription[T]) shouldDeliver(payload T) bool {
	if !s.IsActive() {
		return false
	}
	return s.filter == nil || s.filter(payload)
}
