package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"compliance-service/internal/models"
	"compliance-service/internal/response"
	"compliance-service/internal/selection"
)

type QuestionCatalogStore interface {
	Create(ctx context.Context, question *models.Question) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
	FindActive(ctx context.Context, subPolicyID primitive.ObjectID, userGroup string) ([]models.Question, error)
	ListWithOptions(ctx context.Context, subPolicyID primitive.ObjectID, userGroup, searchText string) ([]models.QuestionWithOptions, error)
	DetailWithOptions(ctx context.Context, id primitive.ObjectID) (*models.QuestionWithOptions, error)
}

type OptionStore interface {
	InsertMany(ctx context.Context, opts []models.Option) error
	DeleteByQuestion(ctx context.Context, questionID primitive.ObjectID) error
	FindByQuestions(ctx context.Context, questionIDs []primitive.ObjectID) (map[primitive.ObjectID][]models.Option, error)
}

type SubPolicyFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.SubPolicy, error)
}

// QuestionService manages the question bank of a sub-policy and draws
// exam papers from it.
type QuestionService struct {
	questions QuestionCatalogStore
	options   OptionStore
	policies  SubPolicyFinder
	settings  SettingFinder
	sampler   *selection.Sampler
	now       func() time.Time
}

func NewQuestionService(questions QuestionCatalogStore, options OptionStore, policies SubPolicyFinder, settings SettingFinder, sampler *selection.Sampler) *QuestionService {
	return &QuestionService{
		questions: questions,
		options:   options,
		policies:  policies,
		settings:  settings,
		sampler:   sampler,
		now:       time.Now,
	}
}

type QuestionInput struct {
	QuestionText string              `json:"questionText"`
	QuestionType models.QuestionType `json:"questionType"`
	Answer       string              `json:"answer"`
	Options      []OptionInput       `json:"options"`
}

type OptionInput struct {
	OptionText  string `json:"optionText"`
	OptionIndex int    `json:"optionId"`
}

type CreateQuestionsRequest struct {
	SubPolicyID string          `json:"subPolicyId"`
	UserGroup   string          `json:"userGroup"`
	Questions   []QuestionInput `json:"questions"`
	CreatedBy   string          `json:"-"`
}

// CreateQuestions inserts a batch of questions with their options under
// one sub-policy. The sub-policy must exist; a bad id fails the whole
// batch before anything is written.
func (s *QuestionService) CreateQuestions(ctx context.Context, payload *CreateQuestionsRequest) *response.Envelope {
	checks := []struct {
		ok      bool
		message string
	}{
		{payload.SubPolicyID != "", "Sub Policy Id is required"},
		{payload.UserGroup != "", "User Group is required"},
		{len(payload.Questions) > 0, "Question is required"},
	}
	for _, c := range checks {
		if !c.ok {
			return response.Invalid(c.message)
		}
	}
	for _, q := range payload.Questions {
		if q.QuestionText == "" {
			return response.Invalid("Question Text is required")
		}
		if q.Answer == "" {
			return response.Invalid("Answer is required")
		}
	}

	subPolicyID, err := primitive.ObjectIDFromHex(payload.SubPolicyID)
	if err != nil {
		return response.Fault(err)
	}
	var createdBy primitive.ObjectID
	if payload.CreatedBy != "" {
		if createdBy, err = primitive.ObjectIDFromHex(payload.CreatedBy); err != nil {
			return response.Fault(err)
		}
	}

	if _, err := s.policies.FindByID(ctx, subPolicyID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return response.NotFound("Sub Policy not found")
		}
		return response.Fault(err)
	}

	now := s.now()
	ids := make([]string, 0, len(payload.Questions))
	for _, q := range payload.Questions {
		question := &models.Question{
			SubPolicyID:  subPolicyID,
			UserGroup:    payload.UserGroup,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Answer:       q.Answer,
			IsActive:     1,
			CreatedBy:    createdBy,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		questionID, err := s.questions.Create(ctx, question)
		if err != nil {
			return response.Fault(err)
		}
		if len(q.Options) > 0 {
			opts := make([]models.Option, 0, len(q.Options))
			for _, o := range q.Options {
				opts = append(opts, models.Option{
					QuestionID:  questionID,
					OptionText:  o.OptionText,
					OptionIndex: o.OptionIndex,
				})
			}
			if err := s.options.InsertMany(ctx, opts); err != nil {
				return response.Fault(err)
			}
		}
		ids = append(ids, questionID.Hex())
	}

	return response.Created("Questions created successfully", bson.M{"questionIds": ids})
}

type ListQuestionsRequest struct {
	SubPolicyID string `json:"subPolicyId"`
	UserGroup   string `json:"userGroup"`
	SearchText  string `json:"searchText,omitempty"`
}

type QuestionListData struct {
	QuestionList []models.QuestionWithOptions `json:"questionList"`
	Count        int                          `json:"count"`
}

// ListQuestions returns every active question of a sub-policy joined to
// its options, answer key excluded.
func (s *QuestionService) ListQuestions(ctx context.Context, payload *ListQuestionsRequest) *response.Envelope {
	if payload.SubPolicyID == "" {
		return response.Invalid("Sub Policy Id is required")
	}
	if payload.UserGroup == "" {
		return response.Invalid("User Group is required")
	}
	subPolicyID, err := primitive.ObjectIDFromHex(payload.SubPolicyID)
	if err != nil {
		return response.Fault(err)
	}

	rows, err := s.questions.ListWithOptions(ctx, subPolicyID, payload.UserGroup, payload.SearchText)
	if err != nil {
		return response.Fault(err)
	}
	data := &QuestionListData{QuestionList: rows, Count: len(rows)}
	if len(rows) == 0 {
		data.QuestionList = []models.QuestionWithOptions{}
		return response.Empty("Not Found", data)
	}
	return response.Found("Question list successfully", data)
}

// QuestionDetail returns one question with its options.
func (s *QuestionService) QuestionDetail(ctx context.Context, id string) *response.Envelope {
	if id == "" {
		return response.Invalid("Question Id is required")
	}
	questionID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return response.Fault(err)
	}
	row, err := s.questions.DetailWithOptions(ctx, questionID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return response.NotFound("Question not found")
		}
		return response.Fault(err)
	}
	return response.Found("Question details successfully", row)
}

type UpdateQuestionRequest struct {
	QuestionID   string              `json:"questionId"`
	QuestionText string              `json:"questionText"`
	QuestionType models.QuestionType `json:"questionType"`
	Answer       string              `json:"answer"`
	Options      []OptionInput       `json:"options"`
}

// UpdateQuestion patches a question's fields and, when options are
// supplied, replaces the full option set.
func (s *QuestionService) UpdateQuestion(ctx context.Context, payload *UpdateQuestionRequest) *response.Envelope {
	if payload.QuestionID == "" {
		return response.Invalid("Question Id is required")
	}
	questionID, err := primitive.ObjectIDFromHex(payload.QuestionID)
	if err != nil {
		return response.Fault(err)
	}

	update := bson.M{"updatedAt": s.now()}
	if payload.QuestionText != "" {
		update["questionText"] = payload.QuestionText
	}
	if payload.QuestionType != "" {
		update["questionType"] = payload.QuestionType
	}
	if payload.Answer != "" {
		update["answer"] = payload.Answer
	}
	if err := s.questions.Update(ctx, questionID, update); err != nil {
		return response.Fault(err)
	}

	if len(payload.Options) > 0 {
		if err := s.options.DeleteByQuestion(ctx, questionID); err != nil {
			return response.Fault(err)
		}
		opts := make([]models.Option, 0, len(payload.Options))
		for _, o := range payload.Options {
			opts = append(opts, models.Option{
				QuestionID:  questionID,
				OptionText:  o.OptionText,
				OptionIndex: o.OptionIndex,
			})
		}
		if err := s.options.InsertMany(ctx, opts); err != nil {
			return response.Fault(err)
		}
	}
	return response.Found("Question updated successfully", nil)
}

// DeleteQuestion removes a question and its options.
func (s *QuestionService) DeleteQuestion(ctx context.Context, id string) *response.Envelope {
	if id == "" {
		return response.Invalid("Question Id is required")
	}
	questionID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return response.Fault(err)
	}
	deleted, err := s.questions.DeleteByID(ctx, questionID)
	if err != nil {
		return response.Fault(err)
	}
	if deleted == 0 {
		return response.NotFound("Question not found")
	}
	if err := s.options.DeleteByQuestion(ctx, questionID); err != nil {
		return response.Fault(err)
	}
	return response.Found("Question deleted successfully", nil)
}

type ExamQuestionsRequest struct {
	SubPolicyID string `json:"subPolicyId"`
	UserGroup   string `json:"userGroup"`
	// Size overrides the sub-policy's maximumQuestions when positive.
	Size int `json:"size,omitempty"`
}

type ExamQuestionsData struct {
	QuestionList []models.QuestionWithOptions `json:"questionList"`
	Count        int                          `json:"count"`
}

// ExamQuestions draws a uniform without-replacement sample from the
// active question pool. The paper size comes from the request, falling
// back to the policy setting, falling back to the whole pool.
func (s *QuestionService) ExamQuestions(ctx context.Context, payload *ExamQuestionsRequest) *response.Envelope {
	if payload.SubPolicyID == "" {
		return response.Invalid("Sub Policy Id is required")
	}
	if payload.UserGroup == "" {
		return response.Invalid("User Group is required")
	}
	subPolicyID, err := primitive.ObjectIDFromHex(payload.SubPolicyID)
	if err != nil {
		return response.Fault(err)
	}

	pool, err := s.questions.FindActive(ctx, subPolicyID, payload.UserGroup)
	if err != nil {
		return response.Fault(err)
	}
	if len(pool) == 0 {
		return response.NotFound("Question list not found")
	}

	size := payload.Size
	if size <= 0 {
		setting, err := s.settings.FindBySubPolicy(ctx, subPolicyID)
		if err != nil {
			return response.Fault(err)
		}
		if setting != nil {
			size = setting.MaximumQuestions
		}
	}
	if size <= 0 {
		size = len(pool)
	}

	drawn := s.sampler.Sample(pool, size)
	ids := make([]primitive.ObjectID, len(drawn))
	for i, q := range drawn {
		ids[i] = q.ID
	}
	optionsByQuestion, err := s.options.FindByQuestions(ctx, ids)
	if err != nil {
		return response.Fault(err)
	}

	rows := make([]models.QuestionWithOptions, 0, len(drawn))
	for _, q := range drawn {
		opts := optionsByQuestion[q.ID]
		if opts == nil {
			opts = []models.Option{}
		}
		rows = append(rows, models.QuestionWithOptions{
			ID:             q.ID,
			SubPolicyID:    q.SubPolicyID,
			UserGroup:      q.UserGroup,
			QuestionText:   q.QuestionText,
			QuestionType:   q.QuestionType,
			OptionsDetails: opts,
		})
	}
	return response.Found("Question list successfully", &ExamQuestionsData{
		QuestionList: rows,
		Count:        len(rows),
	})
}
