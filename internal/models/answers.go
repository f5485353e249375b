package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AnswerSubmission is the canonical form of one submitted answer. Request
// payloads are normalized into this shape at the boundary; the workflow core
// never sees the raw wire format.
type AnswerSubmission struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// UnmarshalJSON accepts both the structured form and a bare answer string.
// A bare string carries no question id; NormalizeAnswers assigns one from the
// entry's position.
func (a *AnswerSubmission) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		a.QuestionID = ""
		a.Answer = plain
		return nil
	}

	var obj struct {
		QuestionID string `json:"question_id"`
		ID         string `json:"id"`
		Answer     string `json:"answer"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid answer entry: %w", err)
	}

	a.QuestionID = obj.QuestionID
	if a.QuestionID == "" {
		a.QuestionID = obj.ID
	}
	a.Answer = obj.Answer
	return nil
}

// NormalizeAnswers canonicalizes a decoded answer list: positional entries
// (bare strings) get the id of the question at their position, and ids
// submitted without the "q" prefix get it added. Question ids are "q" plus
// the 1-based position in the generated set.
func NormalizeAnswers(answers []AnswerSubmission) []AnswerSubmission {
	normalized := make([]AnswerSubmission, 0, len(answers))
	for i, a := range answers {
		id := strings.TrimSpace(a.QuestionID)
		switch {
		case id == "":
			id = fmt.Sprintf("q%d", i+1)
		case !strings.HasPrefix(id, "q") && isDigits(id):
			id = "q" + id
		}
		normalized = append(normalized, AnswerSubmission{QuestionID: id, Answer: a.Answer})
	}
	return normalized
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
