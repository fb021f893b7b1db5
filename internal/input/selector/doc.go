// Package selector implements pointer-driven selection over an ordered
// set of selectable elements.
//
// A Selector turns pointer down, move, up and click inputs into a
// selection of elements. It knows nothing about the elements themselves:
// a HitTester answers which elements lie under a point (front to back),
// and an Orderer returns the elements between two of them in document
// order.
//
// # Gestures
//
// A press starts a gesture. The elements under the pointer are offered,
// front to back, to the BeforeStart signal; the first one no listener
// rejects becomes the pivot. As the pointer moves, each newly hovered
// element is offered to the Hover signal, and the selection is recomputed
// as everything between the pivot and the accepted element. Release ends
// the gesture with Stop, or, if the pointer never travelled further than
// the threshold, clears the selection and treats the gesture as a click.
//
// # Clicks
//
// A click on an element schedules a Click after the double-click window.
// A second click on the same element inside the window cancels it and
// emits DblClick instead.
//
// # Filters
//
// Filters are predicates installed for the duration of a gesture,
// typically from a BeforeStart listener. They are applied every time the
// selection is recomputed and are reset at the next press.
package selector
