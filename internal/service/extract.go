package service

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

var codeFenceRe = regexp.MustCompile("```(?:json)?")

// ExtractQuestions pulls a best-effort list of question strings out of a raw
// model reply. The reply is expected to contain one JSON object with a
// "questions" array, possibly wrapped in code fences or surrounded by
// commentary; entries may be plain strings or objects carrying a text field.
// On any parse failure the result is an empty list — never an error.
func ExtractQuestions(raw string) []string {
	cleaned := strings.TrimSpace(codeFenceRe.ReplaceAllString(raw, ""))

	// First well-formed JSON object substring: outermost braces.
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		slog.Warn("No JSON object found in model reply")
		return nil
	}

	var payload struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &payload); err != nil {
		slog.Warn("Failed to parse model reply as JSON", "error", err)
		return nil
	}

	var result []string
	for _, entry := range payload.Questions {
		if text := questionText(entry); text != "" {
			result = append(result, text)
		}
	}

	return result
}

// questionText extracts the question text from one array entry, which may be
// a bare string or an object with a text-bearing field.
func questionText(entry json.RawMessage) string {
	var plain string
	if err := json.Unmarshal(entry, &plain); err == nil {
		return strings.TrimSpace(plain)
	}

	var obj map[string]any
	if err := json.Unmarshal(entry, &obj); err != nil {
		return ""
	}
	for _, key := range []string{"question_text", "text", "question"} {
		if text, ok := obj[key].(string); ok && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
	}
	return ""
}
