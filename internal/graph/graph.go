package graph

import (
	"strconv"
	"strings"
)

// Graph is one valuation case: an arbitrarily nested mapping populated by
// wizard steps, AI extraction and manual edits. The engine only reads it,
// and only through field paths — there is no fixed schema.
type Graph map[string]any

// Resolve tries each candidate path in order and returns the first value
// whose traversal succeeds. Absence is a normal outcome, reported as
// (nil, false); it is never an error.
func Resolve(g Graph, paths ...string) (any, bool) {
	for _, p := range paths {
		if v, ok := resolvePath(g, p); ok {
			return v, true
		}
	}
	return nil, false
}

// String resolves to a string form, or ("", false) when absent.
func String(g Graph, paths ...string) (string, bool) {
	v, ok := Resolve(g, paths...)
	if !ok {
		return "", false
	}
	return Stringify(v), true
}

// Float resolves to a float64, or (0, false) when absent or non-numeric.
func Float(g Graph, paths ...string) (float64, bool) {
	v, ok := Resolve(g, paths...)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// Slice resolves to an array value, or (nil, false) when absent or scalar.
func Slice(g Graph, paths ...string) ([]any, bool) {
	v, ok := Resolve(g, paths...)
	if !ok {
		return nil, false
	}
	s, ok := v.([]any)
	return s, ok
}

// resolvePath walks one dotted path with optional bracket indexes,
// e.g. "permits[0].date". A missing key or out-of-range index means the
// whole path is absent.
func resolvePath(root any, path string) (any, bool) {
	cur := root
	for _, seg := range strings.Split(path, ".") {
		key, indexes, ok := splitSegment(seg)
		if !ok {
			return nil, false
		}
		if key != "" {
			m, ok := cur.(map[string]any)
			if !ok {
				if g, isGraph := cur.(Graph); isGraph {
					m = map[string]any(g)
				} else {
					return nil, false
				}
			}
			cur, ok = m[key]
			if !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			arr, ok := cur.([]any)
			if !ok || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			cur = arr[idx]
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// splitSegment splits "permits[0][1]" into ("permits", [0, 1]).
func splitSegment(seg string) (key string, indexes []int, ok bool) {
	open := strings.IndexByte(seg, '[')
	if open < 0 {
		return seg, nil, seg != ""
	}
	key = seg[:open]
	rest := seg[open:]
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return "", nil, false
		}
		n, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, n)
		rest = rest[end+1:]
	}
	return key, indexes, true
}

// Stringify renders a resolved value the way it should appear in document
// text. Floats drop insignificant trailing zeros so areas like 85.0 print
// as "85".
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

// Copy returns a shallow copy of the top level, so a caller can overlay
// derived values without mutating the input case.
func Copy(g Graph) Graph {
	out := make(Graph, len(g)+1)
	for k, v := range g {
		out[k] = v
	}
	return out
}
