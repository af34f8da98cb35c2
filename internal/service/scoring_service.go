package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"compliance-service/internal/models"
	"compliance-service/internal/repository"
	"compliance-service/internal/response"
	"compliance-service/pkg/logger"
)

type QuestionStore interface {
	FindActive(ctx context.Context, subPolicyID primitive.ObjectID, userGroup string) ([]models.Question, error)
	CountCorrect(ctx context.Context, probes []repository.AnswerProbe) (int64, error)
}

type AnswerStore interface {
	InsertMany(ctx context.Context, answers []models.Answer) error
	CountByResult(ctx context.Context, resultID primitive.ObjectID) (int64, error)
	ListByResult(ctx context.Context, opts repository.AnswerListOptions) ([]models.SubmittedAnswerRow, error)
}

type ResultStore interface {
	Create(ctx context.Context, result *models.Result) (primitive.ObjectID, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountAttempts(ctx context.Context, subPolicyID, employeeID primitive.ObjectID) (int64, error)
}

type SettingFinder interface {
	FindBySubPolicy(ctx context.Context, subPolicyID primitive.ObjectID) (*models.PolicySetting, error)
}

// ResultNotifier receives the persisted result for the summary email.
// Implementations are best effort; the scoring path never waits on them.
type ResultNotifier interface {
	NotifyResult(ctx context.Context, result *models.Result)
}

// ScoringService turns a submitted answer set into a scored, persisted
// exam result.
type ScoringService struct {
	questions QuestionStore
	answers   AnswerStore
	results   ResultStore
	settings  SettingFinder
	notifier  ResultNotifier
	now       func() time.Time
}

func NewScoringService(questions QuestionStore, answers AnswerStore, results ResultStore, settings SettingFinder, notifier ResultNotifier) *ScoringService {
	return &ScoringService{
		questions: questions,
		answers:   answers,
		results:   results,
		settings:  settings,
		notifier:  notifier,
		now:       time.Now,
	}
}

type SubmittedAnswer struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

type SubmitAnswersRequest struct {
	SubPolicyID      string            `json:"subPolicyId"`
	UserGroup        string            `json:"userGroup"`
	Answers          []SubmittedAnswer `json:"answers"`
	PassingScore     float64           `json:"passingScore"`
	MarksPerQuestion float64           `json:"marksPerQuestion"`
	// Duration in seconds, reported by the client timer.
	Duration int `json:"duration"`
	// EmployeeID is injected from the authenticated identity, never read
	// from the client payload.
	EmployeeID string `json:"-"`
}

type SubmitAnswersData struct {
	ResultID     string  `json:"resultId"`
	Score        float64 `json:"score"`
	ResultStatus string  `json:"resultStatus"`
}

// SubmitAnswers validates the payload, scores the submission with one
// batched correctness count, persists the Result and its Answers, and
// hands the summary email off the critical path.
func (s *ScoringService) SubmitAnswers(ctx context.Context, payload *SubmitAnswersRequest) *response.Envelope {
	checks := []struct {
		ok      bool
		message string
	}{
		{payload.SubPolicyID != "", "Sub Policy Id is required"},
		{payload.UserGroup != "", "User Group is required"},
		{len(payload.Answers) > 0, "Answer is required"},
		{payload.PassingScore > 0, "Passing Score is required"},
		{payload.MarksPerQuestion > 0, "Marks Per Question is required"},
		{payload.Duration > 0, "Duration is required"},
		{payload.EmployeeID != "", "Employee Id is required"},
	}
	for _, c := range checks {
		if !c.ok {
			return response.Invalid(c.message)
		}
	}

	subPolicyID, err := primitive.ObjectIDFromHex(payload.SubPolicyID)
	if err != nil {
		return response.Fault(err)
	}
	employeeID, err := primitive.ObjectIDFromHex(payload.EmployeeID)
	if err != nil {
		return response.Fault(err)
	}
	probes := make([]repository.AnswerProbe, 0, len(payload.Answers))
	for _, a := range payload.Answers {
		questionID, err := primitive.ObjectIDFromHex(a.QuestionID)
		if err != nil {
			return response.Fault(err)
		}
		probes = append(probes, repository.AnswerProbe{QuestionID: questionID, Answer: a.Answer})
	}

	questions, err := s.questions.FindActive(ctx, subPolicyID, payload.UserGroup)
	if err != nil {
		return response.Fault(err)
	}
	if len(questions) == 0 {
		return response.NotFound("Question list not found")
	}

	if env := s.checkAttemptCeiling(ctx, subPolicyID, employeeID); env != nil {
		return env
	}

	correctCount, err := s.questions.CountCorrect(ctx, probes)
	if err != nil {
		return response.Fault(err)
	}

	score := float64(correctCount) * payload.MarksPerQuestion
	resultStatus := models.ResultStatusFail
	if score >= payload.PassingScore {
		resultStatus = models.ResultStatusPass
	}

	now := s.now()
	result := &models.Result{
		SubPolicyID:  subPolicyID,
		EmployeeID:   employeeID,
		Score:        score,
		ResultStatus: resultStatus,
		Duration:     payload.Duration,
		SubmitDate:   now,
		CreatedBy:    employeeID,
		CreatedAt:    now,
	}
	resultID, err := s.results.Create(ctx, result)
	if err != nil {
		return response.Fault(err)
	}

	answers := make([]models.Answer, 0, len(probes))
	for _, p := range probes {
		answers = append(answers, models.Answer{
			SubPolicyID: subPolicyID,
			QuestionID:  p.QuestionID,
			ResultID:    resultID,
			EmployeeID:  employeeID,
			Answer:      p.Answer,
			CreatedBy:   employeeID,
			CreatedAt:   now,
		})
	}
	if err := s.answers.InsertMany(ctx, answers); err != nil {
		// Never leave a result without its answers: roll the orphan back
		// before surfacing the fault.
		if cleanupErr := s.results.Delete(ctx, resultID); cleanupErr != nil {
			logger.Log.Error("orphaned result cleanup failed",
				zap.String("resultId", resultID.Hex()), zap.Error(cleanupErr))
		}
		return response.Fault(err)
	}

	if s.notifier != nil {
		go func(result models.Result) {
			nctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			s.notifier.NotifyResult(nctx, &result)
		}(*result)
	}

	return response.Created("Result has been generated successfully.", &SubmitAnswersData{
		ResultID:     resultID.Hex(),
		Score:        score,
		ResultStatus: resultStatus.Label(),
	})
}

// checkAttemptCeiling rejects a submission once the employee has used up
// maximumAttempt results for the sub-policy. Sub-policies without a
// setting are unrestricted.
func (s *ScoringService) checkAttemptCeiling(ctx context.Context, subPolicyID, employeeID primitive.ObjectID) *response.Envelope {
	setting, err := s.settings.FindBySubPolicy(ctx, subPolicyID)
	if err != nil {
		return response.Fault(err)
	}
	if setting == nil || setting.MaximumAttempt <= 0 {
		return nil
	}
	attempts, err := s.results.CountAttempts(ctx, subPolicyID, employeeID)
	if err != nil {
		return response.Fault(err)
	}
	if attempts >= int64(setting.MaximumAttempt) {
		return response.Invalid("Maximum attempts reached for this assessment")
	}
	return nil
}

type SubmittedAnswersRequest struct {
	ResultID string   `json:"resultId"`
	OrderBy  *OrderBy `json:"orderBy,omitempty"`
	Page
}

type SubmittedAnswersData struct {
	AnswerList []models.SubmittedAnswerRow `json:"answerList"`
	Count      int64                       `json:"count"`
	PageNumber int64                       `json:"pageNumber"`
	PageLimit  int64                       `json:"pageLimit"`
}

// GetSubmittedAnswers returns one page of a result's answers joined to
// question and option details, plus the total count of the unpaginated
// set.
func (s *ScoringService) GetSubmittedAnswers(ctx context.Context, payload *SubmittedAnswersRequest) *response.Envelope {
	if payload.ResultID == "" {
		return response.Invalid("Result Id is required")
	}
	resultID, err := primitive.ObjectIDFromHex(payload.ResultID)
	if err != nil {
		return response.Fault(err)
	}

	pageNumber, pageLimit, skip := payload.window()

	var sort bson.D
	if payload.OrderBy != nil && payload.OrderBy.Result != 0 {
		sort = bson.D{{Key: "createdAt", Value: direction(payload.OrderBy.Result)}}
	}

	count, err := s.answers.CountByResult(ctx, resultID)
	if err != nil {
		return response.Fault(err)
	}
	data := &SubmittedAnswersData{
		AnswerList: []models.SubmittedAnswerRow{},
		Count:      count,
		PageNumber: pageNumber,
		PageLimit:  pageLimit,
	}
	if count == 0 {
		return response.Empty("Not Found", data)
	}

	rows, err := s.answers.ListByResult(ctx, repository.AnswerListOptions{
		ResultID: resultID,
		Sort:     sort,
		Skip:     skip,
		Limit:    pageLimit,
		Paged:    true,
	})
	if err != nil {
		return response.Fault(err)
	}
	data.AnswerList = rows
	return response.Found("Submitted answer list", data)
}
