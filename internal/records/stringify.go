package records

import (
	"bytes"
	"encoding/json"
)

// Stringify converts a raw JSON value to display text.
// Strings lose their quotes and escapes, numbers and booleans keep their
// literal spelling, null becomes "null", and objects or arrays are rendered
// as compact JSON. Invalid JSON is returned as-is.
func Stringify(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "null"
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return string(trimmed)
		}
		return s
	case '{', '[':
		return string(compactRaw(trimmed))
	default:
		return string(trimmed)
	}
}
