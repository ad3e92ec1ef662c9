package http

import "encoding/json"

// stringifyNumbers walks a decoded JSON value and converts every json.Number
// to its string form, recursively across maps and slices. License terms ids
// and similar chain identifiers can exceed the safe-integer range of
// JavaScript consumers, so they must never reach the wire as numbers.
func stringifyNumbers(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		return val.String()
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = stringifyNumbers(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = stringifyNumbers(item)
		}
		return out
	default:
		return v
	}
}
