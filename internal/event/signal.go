package event

import "sort"

// Signal is a typed notification point with its own listener list.
// Signals are not safe for concurrent use; they belong to the goroutine
// that owns the emitting component.
type Signal[T any] struct {
	name string
	subs []*subscription[T]
}

// NewSignal creates a signal. The name is used in logs and errors.
func NewSignal[T any](name string) *Signal[T] {
	return &Signal[T]{name: name}
}

// Name returns the signal name.
func (s *Signal[T]) Name() string {
	return s.name
}

// Subscribe attaches a listener. A nil listener panics.
func (s *Signal[T]) Subscribe(l Listener[T], opts ...SubscriptionOption) Subscription {
	return s.subscribe(l, nil, opts...)
}

// SubscribeFiltered attaches a listener that only sees payloads accepted by filter.
func (s *Signal[T]) SubscribeFiltered(l Listener[T], filter FilterFunc[T], opts ...SubscriptionOption) Subscription {
	return s.subscribe(l, filter, opts...)
}

func (s *Signal[T]) subscribe(l Listener[T], filter FilterFunc[T], opts ...SubscriptionOption) Subscription {
	if l == nil {
		panic(&SignalError{Signal: s.name, Err: ErrNilListener})
	}
	sub := newSubscription(s, l, opts...)
	sub.filter = filter

	// Keep listeners sorted by priority, then by subscription order.
	idx := sort.Search(len(s.subs), func(i int) bool {
		return s.subs[i].config.Priority > sub.config.Priority
	})
	s.subs = append(s.subs, nil)
	copy(s.subs[idx+1:], s.subs[idx:])
	s.subs[idx] = sub
	return sub
}

// Unsubscribe cancels a subscription obtained from this signal.
func (s *Signal[T]) Unsubscribe(sub Subscription) error {
	own, ok := sub.(*subscription[T])
	if !ok || own.signal != s || own.State() == SubscriptionStateCancelled {
		return &SignalError{Signal: s.name, Err: ErrSubscriptionNotFound}
	}
	own.Cancel()
	return nil
}

// Emit delivers payload to every active listener and returns the
// aggregated verdict: Reject if any listener rejected.
func (s *Signal[T]) Emit(payload T) Verdict {
	if len(s.subs) == 0 {
		return Accept
	}
	snapshot := make([]*subscription[T], len(s.subs))
	copy(snapshot, s.subs)

	verdict := Accept
	for _, sub := range snapshot {
		if !sub.shouldDeliver(payload) {
			continue
		}
		if sub.config.Once {
			sub.Cancel()
		}
		if sub.listener(payload) == Reject {
			verdict = Reject
		}
	}
	return verdict
}

// Len returns the number of attached listeners, paused ones included.
func (s *Signal[T]) Len() int {
	return len(s.subs)
}

// Clear cancels every subscription.
func (s *Signal[T]) Clear() {
	subs := s.subs
	s.subs = nil
	for _, sub := range subs {
		sub.state.Store(int32(SubscriptionStateCancelled))
	}
}

func (s *Signal[T]) detach(sub *subscription[T]) {
	for i, other := range s.subs {
		if other == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}
