// Package document holds the editable transcript text as an ordered
// sequence of atoms (words), some of which are grouped into Sections.
//
// Sections are flat: a Section never contains another Section. Each
// Section is delimited by a left and a right Handle that the user drags
// to resize it. Atoms and handles are leaves; every leaf owns one slot,
// and slots are numbered in document order. Spans from package span
// address ranges of slots.
//
// Node identity is by pointer. Mutations keep atom pointers stable, so a
// selection made of atoms survives a Surround or Unwrap that moves them.
package document
