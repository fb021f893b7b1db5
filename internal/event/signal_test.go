package event

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSignal_EmitDeliversInPriorityOrder(t *testing.T) {
	s := NewSignal[int]("test")
	var order []string

	s.Subscribe(Notify(func(int) { order = append(order, "normal-1") }))
	s.Subscribe(Notify(func(int) { order = append(order, "low") }), WithPriority(PriorityLow))
	s.Subscribe(Notify(func(int) { order = append(order, "critical") }), WithPriority(PriorityCritical))
	s.Subscribe(Notify(func(int) { order = append(order, "normal-2") }))

	s.Emit(1)

	want := []string{"critical", "normal-1", "normal-2", "low"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("delivery order (-want +got):\n%s", diff)
	}
}

func TestSignal_AnyRejectRejects(t *testing.T) {
	s := NewSignal[string]("veto")
	calls := 0
	s.Subscribe(func(string) Verdict { calls++; return Reject })
	s.Subscribe(func(string) Verdict { calls++; return Accept })

	if got := s.Emit("x"); got != Reject {
		t.Errorf("Emit() = %v, want reject", got)
	}
	if calls != 2 {
		t.Errorf("listeners called %d times, want 2 (all listeners run)", calls)
	}
}

func TestSignal_EmitWithoutListenersAccepts(t *testing.T) {
	s := NewSignal[int]("empty")
	if got := s.Emit(0); got != Accept {
		t.Errorf("Emit() = %v, want accept", got)
	}
}

func TestSignal_CancelDuringEmit(t *testing.T) {
	s := NewSignal[int]("cancel")
	var second Subscription
	secondCalls := 0

	s.Subscribe(Notify(func(int) { second.Cancel() }))
	second = s.Subscribe(Notify(func(int) { secondCalls++ }))

	s.Emit(1)
	s.Emit(2)

	if secondCalls != 0 {
		t.Errorf("cancelled listener called %d times, want 0", secondCalls)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSignal_SubscribeDuringEmit(t *testing.T) {
	s := NewSignal[int]("subscribe")
	lateCalls := 0
	s.Subscribe(Notify(func(int) {
		s.Subscribe(Notify(func(int) { lateCalls++ }))
	}), WithOnce())

	s.Emit(1)
	if lateCalls != 0 {
		t.Errorf("listener added during emit was called %d times in the same emit", lateCalls)
	}
	s.Emit(2)
	if lateCalls != 1 {
		t.Errorf("late listener called %d times, want 1", lateCalls)
	}
}

func TestSignal_Once(t *testing.T) {
	s := NewSignal[int]("once")
	calls := 0
	sub := s.Subscribe(Notify(func(int) { calls++ }), WithOnce())

	s.Emit(1)
	s.Emit(2)

	if calls != 1 {
		t.Errorf("once listener called %d times, want 1", calls)
	}
	if sub.State() != SubscriptionStateCancelled {
		t.Errorf("State() = %v, want cancelled", sub.State())
	}
}

func TestSignal_PauseResume(t *testing.T) {
	s := NewSignal[int]("pause")
	var got []int
	sub := s.Subscribe(Notify(func(v int) { got = append(got, v) }))

	s.Emit(1)
	sub.Pause()
	s.Emit(2)
	sub.Resume()
	s.Emit(3)

	if diff := cmp.Diff([]int{1, 3}, got); diff != "" {
		t.Errorf("delivered values (-want +got):\n%s", diff)
	}
}

func TestSignal_SubscribeFiltered(t *testing.T) {
	s := NewSignal[int]("filtered")
	var got []int
	s.SubscribeFiltered(Notify(func(v int) { got = append(got, v) }), func(v int) bool { return v%2 == 0 })

	for i := 1; i <= 4; i++ {
		s.Emit(i)
	}

	if diff := cmp.Diff([]int{2, 4}, got); diff != "" {
		t.Errorf("delivered values (-want +got):\n%s", diff)
	}
}

func TestSignal_Unsubscribe(t *testing.T) {
	s := NewSignal[int]("unsub")
	other := NewSignal[int]("other")
	sub := s.Subscribe(Notify(func(int) {}))

	if err := other.Unsubscribe(sub); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("Unsubscribe from wrong signal = %v, want ErrSubscriptionNotFound", err)
	}
	if err := s.Unsubscribe(sub); err != nil {
		t.Fatalf("Unsubscribe() = %v", err)
	}
	if err := s.Unsubscribe(sub); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("second Unsubscribe = %v, want ErrSubscriptionNotFound", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestSignal_Clear(t *testing.T) {
	s := NewSignal[int]("clear")
	calls := 0
	sub := s.Subscribe(Notify(func(int) { calls++ }))

	s.Clear()
	s.Emit(1)

	if calls != 0 {
		t.Errorf("listener called after Clear")
	}
	if sub.IsActive() {
		t.Error("subscription still active after Clear")
	}
}

func TestSignal_NilListenerPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrNilListener) {
			t.Errorf("recovered %v, want ErrNilListener", r)
		}
	}()
	NewSignal[int]("nil").Subscribe(nil)
}
