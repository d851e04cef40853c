package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/datatypes"

	"github.com/mddrc-dev/training-service/internal/models"
)

func seedTest(env *testEnv, programID string, testType models.TestType) *models.Test {
	test := &models.Test{
		ID:        "test-" + string(testType),
		ProgramID: programID,
		TestType:  testType,
		Questions: datatypes.NewJSONSlice([]models.TestQuestion{
			{Question: "Q1", Options: []string{"a", "b", "c"}, CorrectAnswer: 0},
			{Question: "Q2", Options: []string{"a", "b", "c"}, CorrectAnswer: 1},
			{Question: "Q3", Options: []string{"a", "b", "c"}, CorrectAnswer: 2},
			{Question: "Q4", Options: []string{"a", "b", "c"}, CorrectAnswer: 1},
		}),
	}
	env.repo.tests.byID[test.ID] = test
	return test
}

func TestTestService_SubmitScoresAgainstStoredOrder(t *testing.T) {
	env := newTestEnv()
	svc := NewTestService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 75)
	participant := env.addUser("p1", models.RoleParticipant)
	env.addSession("sess-1", "prog-1", sessionOpts{participants: []string{"p1"}})
	seedTest(env, "prog-1", models.TestPost)
	env.openGate("p1", "sess-1", models.GatePostTest)

	// Questions delivered in order 2,0,3,1; answers line up with that
	// order. Three of four correct.
	req := &SubmitTestRequest{
		SessionID:       "sess-1",
		TestType:        "post",
		Answers:         []int{2, 0, 1, 0},
		QuestionIndices: []int{2, 0, 3, 1},
	}

	resp, err := svc.SubmitTest(ctx, req, participant)
	if err != nil {
		t.Fatalf("SubmitTest error: %v", err)
	}
	if resp.CorrectAnswers != 3 {
		t.Errorf("correct = %d, want 3", resp.CorrectAnswers)
	}
	if resp.Score != 75 {
		t.Errorf("score = %v, want 75", resp.Score)
	}
	if !resp.Passed {
		t.Error("should pass at exactly the pass percentage")
	}

	access, _ := env.repo.access.GetByPair(ctx, "p1", "sess-1")
	if !access.PostTestCompleted {
		t.Error("completion flag not set")
	}
}

func TestTestService_SubmitValidation(t *testing.T) {
	env := newTestEnv()
	svc := NewTestService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	participant := env.addUser("p1", models.RoleParticipant)
	env.addSession("sess-1", "prog-1", sessionOpts{participants: []string{"p1"}})
	seedTest(env, "prog-1", models.TestPre)

	// Gate closed first.
	req := &SubmitTestRequest{SessionID: "sess-1", TestType: "pre", Answers: []int{0, 1, 2, 1}}
	if _, err := svc.SubmitTest(ctx, req, participant); !errors.Is(err, ErrGateClosed) {
		t.Errorf("got %v, want ErrGateClosed", err)
	}

	env.openGate("p1", "sess-1", models.GatePreTest)

	// Wrong answer count.
	short := &SubmitTestRequest{SessionID: "sess-1", TestType: "pre", Answers: []int{0, 1}}
	if _, err := svc.SubmitTest(ctx, short, participant); !errors.Is(err, ErrAnswerCountWrong) {
		t.Errorf("got %v, want ErrAnswerCountWrong", err)
	}

	// Bad permutation.
	bad := &SubmitTestRequest{
		SessionID:       "sess-1",
		TestType:        "pre",
		Answers:         []int{0, 1, 2, 1},
		QuestionIndices: []int{0, 0, 1, 2},
	}
	if _, err := svc.SubmitTest(ctx, bad, participant); !errors.Is(err, ErrBadQuestionOrder) {
		t.Errorf("got %v, want ErrBadQuestionOrder", err)
	}
}

func TestTestService_DuplicateSubmissionsAppendHistory(t *testing.T) {
	env := newTestEnv()
	svc := NewTestService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	participant := env.addUser("p1", models.RoleParticipant)
	env.addSession("sess-1", "prog-1", sessionOpts{participants: []string{"p1"}})
	seedTest(env, "prog-1", models.TestPre)
	env.openGate("p1", "sess-1", models.GatePreTest)

	req := &SubmitTestRequest{SessionID: "sess-1", TestType: "pre", Answers: []int{0, 1, 2, 1}}
	if _, err := svc.SubmitTest(ctx, req, participant); err != nil {
		t.Fatalf("first submit error: %v", err)
	}
	if _, err := svc.SubmitTest(ctx, req, participant); err != nil {
		t.Fatalf("second submit error: %v", err)
	}

	results, _ := env.repo.results.ListByPair(ctx, "p1", "sess-1")
	if len(results) != 2 {
		t.Errorf("history rows = %d, want 2", len(results))
	}

	access, _ := env.repo.access.GetByPair(ctx, "p1", "sess-1")
	if !access.PreTestCompleted {
		t.Error("completion flag not set")
	}
}

func TestTestService_GetTestForParticipantStripsAnswers(t *testing.T) {
	env := newTestEnv()
	svc := NewTestService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	participant := env.addUser("p1", models.RoleParticipant)
	env.addSession("sess-1", "prog-1", sessionOpts{participants: []string{"p1"}})
	seedTest(env, "prog-1", models.TestPre)
	env.openGate("p1", "sess-1", models.GatePreTest)

	delivered, err := svc.GetTestForParticipant(ctx, "sess-1", models.TestPre, participant)
	if err != nil {
		t.Fatalf("GetTestForParticipant error: %v", err)
	}
	if len(delivered.Questions) != 4 {
		t.Fatalf("delivered %d questions, want 4", len(delivered.Questions))
	}
	for i, q := range delivered.Questions {
		if q.CorrectAnswer != 0 {
			t.Errorf("question %d leaks correct answer", i)
		}
	}
	if !isPermutation(delivered.QuestionIndices, 4) {
		t.Errorf("indices %v are not a permutation", delivered.QuestionIndices)
	}

	// Answering every delivered question with its original correct answer
	// must score 100 regardless of shuffle order.
	test := env.repo.tests.byID["test-pre"]
	answers := make([]int, len(delivered.QuestionIndices))
	for pos, orig := range delivered.QuestionIndices {
		answers[pos] = test.Questions[orig].CorrectAnswer
	}
	resp, err := svc.SubmitTest(ctx, &SubmitTestRequest{
		SessionID:       "sess-1",
		TestType:        "pre",
		Answers:         answers,
		QuestionIndices: delivered.QuestionIndices,
	}, participant)
	if err != nil {
		t.Fatalf("SubmitTest error: %v", err)
	}
	if resp.Score != 100 {
		t.Errorf("score = %v, want 100", resp.Score)
	}
}

func TestTestService_SubmitRequiresEnrollment(t *testing.T) {
	env := newTestEnv()
	svc := NewTestService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	outsider := env.addUser("p9", models.RoleParticipant)
	env.addSession("sess-1", "prog-1", sessionOpts{participants: []string{"p1"}})
	seedTest(env, "prog-1", models.TestPre)

	req := &SubmitTestRequest{SessionID: "sess-1", TestType: "pre", Answers: []int{0, 1, 2, 1}}
	if _, err := svc.SubmitTest(ctx, req, outsider); !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("got %v, want ErrNotEnrolled", err)
	}
}
