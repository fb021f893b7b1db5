package loader

import "strings"

// Merge combines settings maps into a new map. Later maps win; nested
// sections are merged key by key and every value is copied, so the
// result never aliases an input.
func Merge(layers ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, layer := range layers {
		mergeInto(out, layer)
	}
	return out
}

func mergeInto(dst, src map[string]any) {
	for key, v := range src {
		sub, isSection := v.(map[string]any)
		cur, hasSection := dst[key].(map[string]any)
		if isSection && hasSection {
			mergeInto(cur, sub)
			continue
		}
		dst[key] = copyValue(v)
	}
}

func copyValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = copyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}

// Lookup returns the setting at a dotted key such as
// "selection.threshold".
func Lookup(settings map[string]any, key string) (any, bool) {
	var v any = settings
	for _, part := range strings.Split(key, ".") {
		section, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		if v, ok = section[part]; !ok {
			return nil, false
		}
	}
	return v, true
}

// Set stores value at a dotted key, creating sections on the way. A
// scalar in the way is replaced by a section.
func Set(settings map[string]any, key string, value any) {
	if settings == nil {
		return
	}
	parts := strings.Split(key, ".")
	section := settings
	for _, part := range parts[:len(parts)-1] {
		next, ok := section[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			section[part] = next
		}
		section = next
	}
	section[parts[len(parts)-1]] = value
}

// normalizeKeys rewrites every key to the canonical form: lower case
// with underscores, so "Double-Click-Window" reads as
// "double_click_window".
func normalizeKeys(settings map[string]any) map[string]any {
	out := make(map[string]any, len(settings))
	for k, v := range settings {
		if sub, ok := v.(map[string]any); ok {
			v = normalizeKeys(sub)
		}
		out[strings.ReplaceAll(strings.ToLower(k), "-", "_")] = v
	}
	return out
}
