package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// CompanyContext is a flat mapping of already-known company facts that steer
// question and section generation. Request payloads may carry it as a JSON
// object or as a bare string; it is normalized into this shape at the
// boundary, so the workflow core never sees the raw wire format.
type CompanyContext map[string]string

// UnmarshalJSON accepts an object with arbitrary flat values or a bare
// string. Non-string object values are kept as their JSON rendering; a bare
// string becomes a single "context" entry.
func (c *CompanyContext) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*c = nil
		return nil
	}

	var plain string
	if err := json.Unmarshal(trimmed, &plain); err == nil {
		if strings.TrimSpace(plain) == "" {
			*c = nil
			return nil
		}
		*c = CompanyContext{"context": plain}
		return nil
	}

	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return fmt.Errorf("invalid company context: %w", err)
	}

	out := make(CompanyContext, len(obj))
	for key, value := range obj {
		switch v := value.(type) {
		case string:
			out[key] = v
		default:
			rendered, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("invalid company context value for %q: %w", key, err)
			}
			out[key] = string(rendered)
		}
	}
	*c = out
	return nil
}

// PromptLines renders the facts as "key: value" lines in key order, for
// embedding into a model prompt.
func (c CompanyContext) PromptLines() string {
	if len(c) == 0 {
		return ""
	}

	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, key+": "+c[key])
	}
	return strings.Join(lines, "\n")
}
