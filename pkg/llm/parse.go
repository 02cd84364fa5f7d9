package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON is returned when no JSON object can be located in a reply.
var ErrNoJSON = errors.New("no JSON object in model reply")

// UnmarshalLenient decodes a model reply into v, tolerating the usual
// sloppiness of generative backends: structured objects returned directly in
// JSON mode, JSON-encoded strings, markdown code fences and prose wrapped
// around the object. Backends vary in strictness even when a schema was
// requested, so callers of schema-constrained invocations still go through
// here.
func UnmarshalLenient(res Result, v any) error {
	if len(res.JSON) > 0 {
		return json.Unmarshal(res.JSON, v)
	}

	raw := strings.TrimSpace(res.Text)
	if raw == "" {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}

	cleaned := ExtractJSON(raw)
	if cleaned == "" {
		return ErrNoJSON
	}
	return json.Unmarshal([]byte(cleaned), v)
}

// ExtractJSON pulls a JSON object out of a reply that wraps it in a markdown
// code fence or surrounding prose. Returns "" when no braces are found.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
		raw = strings.TrimSpace(raw)
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
