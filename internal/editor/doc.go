// Package editor keeps a document's Sections and a timeline's Regions
// paired while the user edits them.
//
// A Surface turns pointer gestures on the rendered document into
// Section mutations and announces them through typed signals. A
// Timeline holds the ordered {Section, Region} pairs. An Editor wires
// the two together: it pairs every created Section with a Region cut
// from the gap between its neighbours, rolls the Section back when the
// gap is empty, and drops the Region of every removed Section.
package editor
