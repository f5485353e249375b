package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docforge/internal/models"
	"docforge/internal/repository"
	"docforge/internal/testutil"
)

func setupOrchestrator(t *testing.T) (*Orchestrator, *stubGenerator, *testutil.Fixtures) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping container-backed test in short mode")
	}

	tc := testutil.SetupTestContainers(t)
	t.Cleanup(func() { tc.Cleanup(t) })

	fixtures := testutil.SetupFixtures(t, tc.DB)

	gen := &stubGenerator{}
	orchestrator := NewOrchestrator(
		repository.NewSessionRepository(tc.DB),
		repository.NewTemplateRepository(tc.DB),
		repository.NewQuestionRepository(tc.DB),
		repository.NewDraftRepository(tc.DB),
		repository.NewDocumentRepository(tc.DB),
		NewQuestionService(gen),
		NewSectionService(gen),
	)

	return orchestrator, gen, fixtures
}

func TestOrchestratorFullWorkflow(t *testing.T) {
	o, gen, fixtures := setupOrchestrator(t)
	ctx := context.Background()

	session, err := o.CreateSession(ctx, fixtures.Template.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusInProgress, session.Status)
	assert.Equal(t, 2, session.TotalSections)
	assert.Equal(t, 0, session.CurrentSectionIndex)

	info, err := o.CurrentSection(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, info.Section)
	assert.Equal(t, "intro", info.Section.ID)

	// Question round for the first section.
	gen.reply = `{"questions": ["How many employees?", "Which location?"]}`
	set, err := o.RequestQuestions(ctx, session.ID, "intro", nil)
	require.NoError(t, err)
	require.Len(t, set.Questions, 2)
	assert.Equal(t, "q1", set.Questions[0].QuestionID)

	// Generation is blocked while required answers are missing, and no
	// draft is written for the section.
	result, err := o.GenerateSection(ctx, session.ID, "intro", nil)
	require.NoError(t, err)
	assert.True(t, result.WaitingForAnswers)
	assert.Equal(t, []string{"q1", "q2"}, result.MissingQuestionIDs)

	drafts, err := o.ListSections(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, drafts)

	_, err = o.SubmitAnswers(ctx, session.ID, "intro", []models.AnswerSubmission{
		{QuestionID: "q1", Answer: "42"},
		{QuestionID: "q2", Answer: "Berlin"},
	})
	require.NoError(t, err)

	gen.reply = "The company employs 42 people in Berlin."
	result, err = o.GenerateSection(ctx, session.ID, "intro", nil)
	require.NoError(t, err)
	assert.False(t, result.WaitingForAnswers)
	assert.Equal(t, "The company employs 42 people in Berlin.", result.Content)
	assert.Equal(t, 1, result.Version)

	approval, err := o.ApproveSection(ctx, session.ID, "intro", "")
	require.NoError(t, err)
	assert.Equal(t, 1, approval.NextIndex)
	assert.False(t, approval.AllSectionsDone)

	// Second section drafts without a question round.
	gen.reply = "All details follow."
	result, err = o.GenerateSection(ctx, session.ID, "details", nil)
	require.NoError(t, err)
	assert.Equal(t, "All details follow.", result.Content)

	approval, err = o.ApproveSection(ctx, session.ID, "details", "")
	require.NoError(t, err)
	assert.Equal(t, 2, approval.NextIndex)
	assert.True(t, approval.AllSectionsDone)
	assert.Equal(t, models.SessionStatusCompleted, approval.Status)

	info, err = o.CurrentSection(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, info.AllSectionsDone)
	assert.Nil(t, info.Section)

	doc, err := o.Compile(ctx, session.ID, "Test Offer")
	require.NoError(t, err)
	assert.Equal(t, "Test Offer", doc.DocTitle)
	assert.Equal(t,
		"## Introduction\n\nThe company employs 42 people in Berlin."+
			"\n\n---\n\n"+
			"## Details\n\nAll details follow.",
		doc.CompiledContent)

	stored, err := o.CompiledDocument(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, stored.ID)

	// Recompiling keeps the first document id and reproduces the content
	// byte for byte.
	doc2, err := o.Compile(ctx, session.ID, "")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, doc2.ID)
	assert.Equal(t, fixtures.Template.DocName, doc2.DocTitle)
	assert.Equal(t, doc.CompiledContent, doc2.CompiledContent)
}

func TestOrchestratorQuestionIdempotency(t *testing.T) {
	o, gen, fixtures := setupOrchestrator(t)
	ctx := context.Background()

	session, err := o.CreateSession(ctx, fixtures.Template.ID)
	require.NoError(t, err)

	gen.reply = `{"questions": ["First?"]}`
	first, err := o.RequestQuestions(ctx, session.ID, "intro", nil)
	require.NoError(t, err)
	require.Len(t, first.Questions, 1)

	// A repeat call must return the stored set, not regenerate.
	gen.reply = `{"questions": ["Different?", "Questions?"]}`
	second, err := o.RequestQuestions(ctx, session.ID, "intro", nil)
	require.NoError(t, err)
	require.Len(t, second.Questions, 1)
	assert.Equal(t, "First?", second.Questions[0].QuestionText)

	// Answers survive repeat calls too.
	_, err = o.SubmitAnswers(ctx, session.ID, "intro", []models.AnswerSubmission{
		{QuestionID: "q1", Answer: "answered"},
	})
	require.NoError(t, err)

	third, err := o.RequestQuestions(ctx, session.ID, "intro", nil)
	require.NoError(t, err)
	assert.Equal(t, "answered", third.Questions[0].Answer)
}

func TestOrchestratorEmptyQuestionRoundIsRecorded(t *testing.T) {
	o, gen, fixtures := setupOrchestrator(t)
	ctx := context.Background()

	session, err := o.CreateSession(ctx, fixtures.Template.ID)
	require.NoError(t, err)

	// Model failure yields an empty question set, which is still persisted.
	gen.err = errors.New("model down")
	set, err := o.RequestQuestions(ctx, session.ID, "intro", nil)
	require.NoError(t, err)
	assert.Empty(t, set.Questions)

	// The recorded empty round lets generation proceed without answers.
	gen.err = nil
	gen.reply = "Content without questions."
	result, err := o.GenerateSection(ctx, session.ID, "intro", nil)
	require.NoError(t, err)
	assert.False(t, result.WaitingForAnswers)
	assert.Equal(t, "Content without questions.", result.Content)
}

func TestOrchestratorApproveWithEditedContent(t *testing.T) {
	o, gen, fixtures := setupOrchestrator(t)
	ctx := context.Background()

	session, err := o.CreateSession(ctx, fixtures.Template.ID)
	require.NoError(t, err)

	gen.reply = "Machine draft."
	_, err = o.GenerateSection(ctx, session.ID, "intro", nil)
	require.NoError(t, err)

	// Edited content is stored verbatim without another model call.
	calls := len(gen.prompts)
	_, err = o.ApproveSection(ctx, session.ID, "intro", "Human edited version.")
	require.NoError(t, err)
	assert.Equal(t, calls, len(gen.prompts))

	drafts, err := o.ListSections(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Human edited version.", drafts[0].Content)
	assert.Equal(t, models.DraftStatusApproved, drafts[0].Status)
}

func TestOrchestratorReapproveDoesNotAdvance(t *testing.T) {
	o, gen, fixtures := setupOrchestrator(t)
	ctx := context.Background()

	session, err := o.CreateSession(ctx, fixtures.Template.ID)
	require.NoError(t, err)

	gen.reply = "Intro content."
	_, err = o.GenerateSection(ctx, session.ID, "intro", nil)
	require.NoError(t, err)

	approval, err := o.ApproveSection(ctx, session.ID, "intro", "")
	require.NoError(t, err)
	require.Equal(t, 1, approval.NextIndex)

	// Regenerating the approved section resets its draft, but re-approving
	// it must not move the pointer again: the pointer now rests on the
	// second section.
	gen.reply = "Reworked intro."
	result, err := o.GenerateSection(ctx, session.ID, "intro", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Version)

	approval, err = o.ApproveSection(ctx, session.ID, "intro", "")
	require.NoError(t, err)
	assert.Equal(t, 1, approval.NextIndex)
	assert.False(t, approval.AllSectionsDone)
	assert.Equal(t, models.SessionStatusInProgress, approval.Status)

	info, err := o.CurrentSection(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, info.Section)
	assert.Equal(t, "details", info.Section.ID)
	assert.Equal(t, 1, info.CurrentSectionIndex)

	// The reworked content was still stored.
	drafts, err := o.ListSections(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Reworked intro.", drafts[0].Content)
	assert.Equal(t, models.DraftStatusApproved, drafts[0].Status)
}

func TestOrchestratorDeleteSession(t *testing.T) {
	o, gen, fixtures := setupOrchestrator(t)
	ctx := context.Background()

	session, err := o.CreateSession(ctx, fixtures.Template.ID)
	require.NoError(t, err)

	gen.reply = "Some draft."
	_, err = o.GenerateSection(ctx, session.ID, "intro", nil)
	require.NoError(t, err)

	require.NoError(t, o.DeleteSession(ctx, session.ID))

	_, err = o.CurrentSection(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	err = o.DeleteSession(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestOrchestratorEnhanceIsPreviewOnly(t *testing.T) {
	o, gen, fixtures := setupOrchestrator(t)
	ctx := context.Background()

	session, err := o.CreateSession(ctx, fixtures.Template.ID)
	require.NoError(t, err)

	gen.reply = "Original draft."
	_, err = o.GenerateSection(ctx, session.ID, "intro", nil)
	require.NoError(t, err)

	gen.reply = "Enhanced draft."
	preview, err := o.EnhanceSection(ctx, session.ID, "intro", "Add detail.", nil)
	require.NoError(t, err)
	assert.Equal(t, "Enhanced draft.", preview)

	// The stored draft keeps the original content.
	drafts, err := o.ListSections(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original draft.", drafts[0].Content)
	assert.Equal(t, models.DraftStatusGenerated, drafts[0].Status)
}

func TestOrchestratorCompileBlockedNamesFirstUnapproved(t *testing.T) {
	o, gen, fixtures := setupOrchestrator(t)
	ctx := context.Background()

	session, err := o.CreateSession(ctx, fixtures.Template.ID)
	require.NoError(t, err)

	gen.reply = "Intro content."
	_, err = o.GenerateSection(ctx, session.ID, "intro", nil)
	require.NoError(t, err)
	_, err = o.ApproveSection(ctx, session.ID, "intro", "")
	require.NoError(t, err)

	_, err = o.Compile(ctx, session.ID, "")
	var blocked *CompileBlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, "details", blocked.SectionID)
}

func TestOrchestratorNotFoundErrors(t *testing.T) {
	o, _, fixtures := setupOrchestrator(t)
	ctx := context.Background()

	_, err := o.CreateSession(ctx, "tpl_missing")
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = o.CurrentSection(ctx, "sess_missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	session, err := o.CreateSession(ctx, fixtures.Template.ID)
	require.NoError(t, err)

	_, err = o.RequestQuestions(ctx, session.ID, "bogus", nil)
	assert.ErrorIs(t, err, ErrSectionNotFound)

	_, err = o.SubmitAnswers(ctx, session.ID, "intro", nil)
	assert.ErrorIs(t, err, ErrQuestionSetNotFound)

	_, err = o.ApproveSection(ctx, session.ID, "intro", "")
	assert.ErrorIs(t, err, ErrDraftNotFound)

	_, err = o.CompiledDocument(ctx, session.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}
