package models

import (
	"encoding/json"
	"testing"
)

func TestAnswerSubmissionUnmarshalObject(t *testing.T) {
	var a AnswerSubmission
	if err := json.Unmarshal([]byte(`{"question_id":"q2","answer":"42 employees"}`), &a); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if a.QuestionID != "q2" || a.Answer != "42 employees" {
		t.Errorf("got %+v", a)
	}
}

func TestAnswerSubmissionUnmarshalIDAlias(t *testing.T) {
	var a AnswerSubmission
	if err := json.Unmarshal([]byte(`{"id":"q3","answer":"Berlin"}`), &a); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if a.QuestionID != "q3" {
		t.Errorf("expected id alias to fill question_id, got %q", a.QuestionID)
	}
}

func TestAnswerSubmissionUnmarshalBareString(t *testing.T) {
	var a AnswerSubmission
	if err := json.Unmarshal([]byte(`"just an answer"`), &a); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if a.QuestionID != "" {
		t.Errorf("bare string must not carry an id, got %q", a.QuestionID)
	}
	if a.Answer != "just an answer" {
		t.Errorf("got answer %q", a.Answer)
	}
}

func TestNormalizeAnswersPositionalIDs(t *testing.T) {
	answers := []AnswerSubmission{
		{Answer: "first"},
		{Answer: "second"},
	}

	normalized := NormalizeAnswers(answers)

	if normalized[0].QuestionID != "q1" || normalized[1].QuestionID != "q2" {
		t.Errorf("expected positional ids q1, q2, got %q, %q",
			normalized[0].QuestionID, normalized[1].QuestionID)
	}
}

func TestNormalizeAnswersBareDigitID(t *testing.T) {
	normalized := NormalizeAnswers([]AnswerSubmission{
		{QuestionID: "3", Answer: "yes"},
	})

	if normalized[0].QuestionID != "q3" {
		t.Errorf("expected q3, got %q", normalized[0].QuestionID)
	}
}

func TestNormalizeAnswersKeepsExplicitID(t *testing.T) {
	normalized := NormalizeAnswers([]AnswerSubmission{
		{QuestionID: "q5", Answer: "no"},
	})

	if normalized[0].QuestionID != "q5" {
		t.Errorf("expected q5 untouched, got %q", normalized[0].QuestionID)
	}
}
