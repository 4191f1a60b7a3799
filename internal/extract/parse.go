package extract

import (
	"encoding/json"
	"strings"
)

// Parse recovers a list of JSON objects from unreliable generative
// output. Recovery attempts run in a fixed precedence order:
//
//  1. direct parse of the trimmed response as a JSON array;
//  2. strip code fences, then parse the outermost [...] substring;
//  3. parse the outermost {...} substring as one object and wrap it.
//
// Returns nil when nothing parses. Array items that are not objects are
// dropped.
func Parse(text string) []map[string]any {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil
	}

	if items := parseArray(t); items != nil {
		return items
	}

	stripped := stripFences(t)
	if start, end := strings.Index(stripped, "["), strings.LastIndex(stripped, "]"); start >= 0 && end > start {
		if items := parseArray(stripped[start : end+1]); items != nil {
			return items
		}
	}

	if start, end := strings.Index(stripped, "{"), strings.LastIndex(stripped, "}"); start >= 0 && end > start {
		var obj map[string]any
		if err := json.Unmarshal([]byte(stripped[start:end+1]), &obj); err == nil {
			return []map[string]any{obj}
		}
	}

	return nil
}

// parseArray parses a JSON array, keeping only object items.
func parseArray(s string) []map[string]any {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil
	}

	items := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		var obj map[string]any
		if err := json.Unmarshal(r, &obj); err != nil {
			continue
		}
		items = append(items, obj)
	}
	return items
}

// stripFences removes markdown code-fence markers anywhere in the text.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
