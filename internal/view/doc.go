// Package view is the terminal front end: it lays transcripts and
// documents out in cells, hit-tests pointer positions, paints the
// region timeline and runs the tcell event loop.
//
// Everything here runs on the loop goroutine. Timers and background
// work reach the loop through Loop.Post, which wraps callbacks in tcell
// interrupt events, and Loop.Clock, whose timers are delivered the same
// way.
package view
