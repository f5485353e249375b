package service

import "testing"

func TestExtractQuestionsPlainJSON(t *testing.T) {
	raw := `{"questions": ["How many employees?", "Which location?"]}`

	got := ExtractQuestions(raw)
	if len(got) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got))
	}
	if got[0] != "How many employees?" {
		t.Errorf("got %q", got[0])
	}
}

func TestExtractQuestionsCodeFence(t *testing.T) {
	raw := "Here you go:\n```json\n{\"questions\": [\"What is the salary range?\"]}\n```\nLet me know if you need more."

	got := ExtractQuestions(raw)
	if len(got) != 1 || got[0] != "What is the salary range?" {
		t.Errorf("got %v", got)
	}
}

func TestExtractQuestionsObjectEntries(t *testing.T) {
	raw := `{"questions": [
		{"question_text": "First?"},
		{"text": "Second?"},
		{"question": "Third?"},
		{"irrelevant": "ignored"}
	]}`

	got := ExtractQuestions(raw)
	if len(got) != 3 {
		t.Fatalf("expected 3 questions, got %d: %v", len(got), got)
	}
	if got[0] != "First?" || got[1] != "Second?" || got[2] != "Third?" {
		t.Errorf("got %v", got)
	}
}

func TestExtractQuestionsNoJSON(t *testing.T) {
	if got := ExtractQuestions("I cannot help with that."); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestExtractQuestionsMalformedJSON(t *testing.T) {
	if got := ExtractQuestions(`{"questions": ["unterminated`); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestExtractQuestionsEmptyList(t *testing.T) {
	if got := ExtractQuestions(`{"questions": []}`); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}
