package service

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"compliance-service/internal/models"
	"compliance-service/internal/repository"
	"compliance-service/internal/response"
	"compliance-service/pkg/logger"
)

func TestMain(m *testing.M) {
	// Services log through the package logger; keep it quiet in tests.
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type fakeQuestionStore struct {
	questions  []models.Question
	correct    int64
	probesSeen []repository.AnswerProbe
}

func (f *fakeQuestionStore) FindActive(ctx context.Context, subPolicyID primitive.ObjectID, userGroup string) ([]models.Question, error) {
	return f.questions, nil
}

func (f *fakeQuestionStore) CountCorrect(ctx context.Context, probes []repository.AnswerProbe) (int64, error) {
	f.probesSeen = probes
	return f.correct, nil
}

type fakeAnswerStore struct {
	inserted  []models.Answer
	insertErr error
	count     int64
	rows      []models.SubmittedAnswerRow
	listSeen  repository.AnswerListOptions
}

func (f *fakeAnswerStore) InsertMany(ctx context.Context, answers []models.Answer) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, answers...)
	return nil
}

func (f *fakeAnswerStore) CountByResult(ctx context.Context, resultID primitive.ObjectID) (int64, error) {
	return f.count, nil
}

func (f *fakeAnswerStore) ListByResult(ctx context.Context, opts repository.AnswerListOptions) ([]models.SubmittedAnswerRow, error) {
	f.listSeen = opts
	return f.rows, nil
}

type fakeResultStore struct {
	created  []*models.Result
	deleted  []primitive.ObjectID
	attempts int64
}

func (f *fakeResultStore) Create(ctx context.Context, result *models.Result) (primitive.ObjectID, error) {
	result.ID = primitive.NewObjectID()
	f.created = append(f.created, result)
	return result.ID, nil
}

func (f *fakeResultStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeResultStore) CountAttempts(ctx context.Context, subPolicyID, employeeID primitive.ObjectID) (int64, error) {
	return f.attempts, nil
}

type fakeSettingFinder struct {
	setting *models.PolicySetting
}

func (f *fakeSettingFinder) FindBySubPolicy(ctx context.Context, subPolicyID primitive.ObjectID) (*models.PolicySetting, error) {
	return f.setting, nil
}

type fakeNotifier struct {
	notified chan models.Result
}

func (f *fakeNotifier) NotifyResult(ctx context.Context, result *models.Result) {
	f.notified <- *result
}

func questionPool(n int) []models.Question {
	pool := make([]models.Question, n)
	for i := range pool {
		pool[i] = models.Question{ID: primitive.NewObjectID(), IsActive: 1}
	}
	return pool
}

func submitRequest(n int) *SubmitAnswersRequest {
	answers := make([]SubmittedAnswer, n)
	for i := range answers {
		answers[i] = SubmittedAnswer{QuestionID: primitive.NewObjectID().Hex(), Answer: "A"}
	}
	return &SubmitAnswersRequest{
		SubPolicyID:      primitive.NewObjectID().Hex(),
		UserGroup:        "EMPLOYEE",
		Answers:          answers,
		PassingScore:     25,
		MarksPerQuestion: 10,
		Duration:         300,
		EmployeeID:       primitive.NewObjectID().Hex(),
	}
}

func TestSubmitAnswersScoresAndPersists(t *testing.T) {
	questions := &fakeQuestionStore{questions: questionPool(5), correct: 3}
	answers := &fakeAnswerStore{}
	results := &fakeResultStore{}
	notifier := &fakeNotifier{notified: make(chan models.Result, 1)}
	svc := NewScoringService(questions, answers, results, &fakeSettingFinder{}, notifier)
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	env := svc.SubmitAnswers(context.Background(), submitRequest(5))

	if env.Code != http.StatusCreated {
		t.Fatalf("code = %d, want %d (%s)", env.Code, http.StatusCreated, env.Message)
	}
	data := env.Data.(*SubmitAnswersData)
	if data.Score != 30 {
		t.Errorf("score = %v, want 30", data.Score)
	}
	if data.ResultStatus != "PASS" {
		t.Errorf("resultStatus = %q, want PASS", data.ResultStatus)
	}
	if len(results.created) != 1 {
		t.Fatalf("results created = %d, want 1", len(results.created))
	}
	if len(answers.inserted) != 5 {
		t.Fatalf("answers inserted = %d, want 5", len(answers.inserted))
	}
	resultID := results.created[0].ID
	for i, a := range answers.inserted {
		if a.ResultID != resultID {
			t.Errorf("answer %d resultID = %v, want %v", i, a.ResultID, resultID)
		}
		if !a.CreatedAt.Equal(fixed) {
			t.Errorf("answer %d createdAt = %v, want %v", i, a.CreatedAt, fixed)
		}
	}
	if len(questions.probesSeen) != 5 {
		t.Errorf("probes seen = %d, want 5", len(questions.probesSeen))
	}

	select {
	case notified := <-notifier.notified:
		if notified.ID != resultID {
			t.Errorf("notified result = %v, want %v", notified.ID, resultID)
		}
	case <-time.After(2 * time.Second):
		t.Error("notifier was never invoked")
	}
}

func TestSubmitAnswersValidatesRequiredFields(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*SubmitAnswersRequest)
		message string
	}{
		{"sub policy", func(r *SubmitAnswersRequest) { r.SubPolicyID = "" }, "Sub Policy Id is required"},
		{"user group", func(r *SubmitAnswersRequest) { r.UserGroup = "" }, "User Group is required"},
		{"answers", func(r *SubmitAnswersRequest) { r.Answers = nil }, "Answer is required"},
		{"passing score", func(r *SubmitAnswersRequest) { r.PassingScore = 0 }, "Passing Score is required"},
		{"marks per question", func(r *SubmitAnswersRequest) { r.MarksPerQuestion = 0 }, "Marks Per Question is required"},
		{"duration", func(r *SubmitAnswersRequest) { r.Duration = 0 }, "Duration is required"},
		{"employee", func(r *SubmitAnswersRequest) { r.EmployeeID = "" }, "Employee Id is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			answers := &fakeAnswerStore{}
			results := &fakeResultStore{}
			svc := NewScoringService(&fakeQuestionStore{questions: questionPool(2), correct: 1},
				answers, results, &fakeSettingFinder{}, nil)

			req := submitRequest(2)
			tc.mutate(req)
			env := svc.SubmitAnswers(context.Background(), req)

			if env.Code != http.StatusBadRequest {
				t.Fatalf("code = %d, want %d", env.Code, http.StatusBadRequest)
			}
			if env.Message != tc.message {
				t.Errorf("message = %q, want %q", env.Message, tc.message)
			}
			if len(results.created) != 0 || len(answers.inserted) != 0 {
				t.Error("rejected submission must not write")
			}
		})
	}
}

func TestSubmitAnswersBoundaryScorePasses(t *testing.T) {
	svc := NewScoringService(&fakeQuestionStore{questions: questionPool(5), correct: 5},
		&fakeAnswerStore{}, &fakeResultStore{}, &fakeSettingFinder{}, nil)

	req := submitRequest(5)
	req.MarksPerQuestion = 5
	req.PassingScore = 25
	env := svc.SubmitAnswers(context.Background(), req)

	if env.Code != http.StatusCreated {
		t.Fatalf("code = %d, want %d", env.Code, http.StatusCreated)
	}
	data := env.Data.(*SubmitAnswersData)
	if data.ResultStatus != "PASS" {
		t.Errorf("score equal to passing score must pass, got %q", data.ResultStatus)
	}
}

func TestSubmitAnswersNoActiveQuestions(t *testing.T) {
	svc := NewScoringService(&fakeQuestionStore{}, &fakeAnswerStore{}, &fakeResultStore{},
		&fakeSettingFinder{}, nil)

	env := svc.SubmitAnswers(context.Background(), submitRequest(3))

	if env.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want %d", env.Code, http.StatusNotFound)
	}
	if env.Message != "Question list not found" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestSubmitAnswersAttemptCeiling(t *testing.T) {
	results := &fakeResultStore{attempts: 2}
	svc := NewScoringService(&fakeQuestionStore{questions: questionPool(3), correct: 2},
		&fakeAnswerStore{}, results,
		&fakeSettingFinder{setting: &models.PolicySetting{MaximumAttempt: 2}}, nil)

	env := svc.SubmitAnswers(context.Background(), submitRequest(3))

	if env.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want %d", env.Code, http.StatusBadRequest)
	}
	if env.Message != "Maximum attempts reached for this assessment" {
		t.Errorf("message = %q", env.Message)
	}
	if len(results.created) != 0 {
		t.Error("capped submission must not create a result")
	}
}

func TestSubmitAnswersRollsBackOrphanResult(t *testing.T) {
	answers := &fakeAnswerStore{insertErr: errors.New("write concern failed")}
	results := &fakeResultStore{}
	svc := NewScoringService(&fakeQuestionStore{questions: questionPool(4), correct: 4},
		answers, results, &fakeSettingFinder{}, nil)

	env := svc.SubmitAnswers(context.Background(), submitRequest(4))

	if env.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want %d", env.Code, http.StatusInternalServerError)
	}
	if len(results.created) != 1 {
		t.Fatalf("results created = %d, want 1", len(results.created))
	}
	if len(results.deleted) != 1 || results.deleted[0] != results.created[0].ID {
		t.Errorf("orphaned result was not rolled back: deleted %v", results.deleted)
	}
}

func TestGetSubmittedAnswersEmpty(t *testing.T) {
	svc := NewScoringService(&fakeQuestionStore{}, &fakeAnswerStore{count: 0}, &fakeResultStore{},
		&fakeSettingFinder{}, nil)

	env := svc.GetSubmittedAnswers(context.Background(), &SubmittedAnswersRequest{
		ResultID: primitive.NewObjectID().Hex(),
	})

	if env.Code != http.StatusOK {
		t.Fatalf("code = %d, want %d", env.Code, http.StatusOK)
	}
	if env.Message != "Not Found" {
		t.Errorf("message = %q, want Not Found", env.Message)
	}
	if env.Kind != response.KindEmpty {
		t.Errorf("kind = %v, want KindEmpty", env.Kind)
	}
	data := env.Data.(*SubmittedAnswersData)
	if data.Count != 0 || len(data.AnswerList) != 0 {
		t.Errorf("empty result must report count 0 and an empty list, got %+v", data)
	}
	if data.PageNumber != 1 || data.PageLimit != 10 {
		t.Errorf("default page = %d/%d, want 1/10", data.PageNumber, data.PageLimit)
	}
}

func TestGetSubmittedAnswersPagesWindow(t *testing.T) {
	answers := &fakeAnswerStore{
		count: 23,
		rows:  []models.SubmittedAnswerRow{{AnswerStatus: models.AnswerStatusCorrect}},
	}
	svc := NewScoringService(&fakeQuestionStore{}, answers, &fakeResultStore{},
		&fakeSettingFinder{}, nil)

	env := svc.GetSubmittedAnswers(context.Background(), &SubmittedAnswersRequest{
		ResultID: primitive.NewObjectID().Hex(),
		Page:     Page{PageNumber: 3, PageLimit: 5},
	})

	if env.Code != http.StatusOK {
		t.Fatalf("code = %d (%s)", env.Code, env.Message)
	}
	if answers.listSeen.Skip != 10 || answers.listSeen.Limit != 5 {
		t.Errorf("window = skip %d limit %d, want 10/5", answers.listSeen.Skip, answers.listSeen.Limit)
	}
	data := env.Data.(*SubmittedAnswersData)
	if data.Count != 23 {
		t.Errorf("count = %d, want 23", data.Count)
	}
}

func TestGetSubmittedAnswersRequiresResultID(t *testing.T) {
	svc := NewScoringService(&fakeQuestionStore{}, &fakeAnswerStore{}, &fakeResultStore{},
		&fakeSettingFinder{}, nil)

	env := svc.GetSubmittedAnswers(context.Background(), &SubmittedAnswersRequest{})

	if env.Code != http.StatusBadRequest || env.Message != "Result Id is required" {
		t.Fatalf("got %d %q", env.Code, env.Message)
	}
}
