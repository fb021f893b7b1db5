// Package event provides typed, per-component signals.
//
// Each component owns a fixed set of Signal values, one per kind of
// notification it emits. Listeners subscribe to a specific signal and
// receive its payload type directly; there is no string-keyed registry
// and no type assertion on delivery.
//
// # Verdicts
//
// Listeners return a Verdict. The zero value, Accept, is what every
// plain notification listener returns. Signals that model a veto point
// (for example a selection about to start) aggregate the verdicts of all
// listeners: every listener runs, and the emission is rejected if any of
// them returned Reject.
//
// # Ordering
//
// Listeners run synchronously in the emitter's goroutine, ordered by
// Priority (lower first) and then by subscription order. A listener may
// subscribe or cancel other subscriptions while an emission is in
// progress; changes take effect from the next emission, except that a
// cancelled or paused subscription is skipped immediately.
//
// # Usage
//
//	created := event.NewSignal[SectionCreated]("section-created")
//	sub := created.Subscribe(func(ev SectionCreated) event.Verdict {
//		log.Printf("section %d created", ev.Index)
//		return event.Accept
//	})
//	defer sub.Cancel()
//
//	created.Emit(SectionCreated{Index: 2})
package event
