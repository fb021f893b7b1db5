// Package lua runs user selection filters written in Lua.
//
// A filter script defines a global accept function that receives one
// word of the transcript and returns whether a create gesture may
// select it:
//
//	-- skip-fillers.lua
//	local fillers = { um = true, uh = true, er = true }
//
//	function accept(word)
//	  return not fillers[string.lower(word.text)]
//	end
//
// The word table carries text, index (1-based position among all words)
// and in_section. Scripts run in a sandboxed state: io, os, debug and
// package are not opened, the file and chunk loaders are removed, and
// every call is bounded by an execution timeout. A scribeline module
// offers log(msg) for debugging.
//
// Filters plug into the editing surface through SelectorFilter.
package lua
