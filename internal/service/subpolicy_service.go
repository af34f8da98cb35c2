package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"compliance-service/internal/models"
	"compliance-service/internal/repository"
	"compliance-service/internal/response"
)

type SubPolicyStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.SubPolicy, error)
	FindByNameVersion(ctx context.Context, name, version string) (*models.SubPolicy, error)
	Create(ctx context.Context, subPolicy *models.SubPolicy) (primitive.ObjectID, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
	ListWithSettings(ctx context.Context, opts repository.SubPolicyListOptions) ([]models.SubPolicyWithSetting, error)
}

type SettingStore interface {
	FindBySubPolicy(ctx context.Context, subPolicyID primitive.ObjectID) (*models.PolicySetting, error)
	Upsert(ctx context.Context, setting *models.PolicySetting) error
}

// SubPolicyService manages the versioned assessment units and their exam
// settings.
type SubPolicyService struct {
	policies SubPolicyStore
	settings SettingStore
	now      func() time.Time
}

func NewSubPolicyService(policies SubPolicyStore, settings SettingStore) *SubPolicyService {
	return &SubPolicyService{policies: policies, settings: settings, now: time.Now}
}

type CreateSubPolicyRequest struct {
	PolicyID    string `json:"policyId"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// CreateSubPolicy inserts a new sub-policy. Name plus version is the
// uniqueness key; a duplicate pair is rejected before insert.
func (s *SubPolicyService) CreateSubPolicy(ctx context.Context, payload *CreateSubPolicyRequest) *response.Envelope {
	checks := []struct {
		ok      bool
		message string
	}{
		{payload.PolicyID != "", "Policy Id is required"},
		{payload.Name != "", "Name is required"},
		{payload.Version != "", "Version is required"},
	}
	for _, c := range checks {
		if !c.ok {
			return response.Invalid(c.message)
		}
	}
	policyID, err := primitive.ObjectIDFromHex(payload.PolicyID)
	if err != nil {
		return response.Fault(err)
	}

	existing, err := s.policies.FindByNameVersion(ctx, payload.Name, payload.Version)
	if err != nil {
		return response.Fault(err)
	}
	if existing != nil {
		return response.Invalid("Sub Policy already exists")
	}

	subPolicy := &models.SubPolicy{
		PolicyID:    policyID,
		Name:        payload.Name,
		Version:     payload.Version,
		Description: payload.Description,
		IsActive:    1,
		CreatedAt:   s.now(),
	}
	id, err := s.policies.Create(ctx, subPolicy)
	if err != nil {
		return response.Fault(err)
	}
	return response.Created("Sub Policy created successfully", map[string]string{"subPolicyId": id.Hex()})
}

type ListSubPolicyRequest struct {
	PolicyID string `json:"policyId"`
	IsActive *int   `json:"isActive,omitempty"`
	// FrontEnd restricts the list to sub-policies inside their publish
	// window at request time.
	FrontEnd bool `json:"frontEnd,omitempty"`
}

type SubPolicyListData struct {
	SubPolicyList []models.SubPolicyWithSetting `json:"subPolicyList"`
	Count         int                           `json:"count"`
}

// ListSubPolicies returns a policy's sub-policies joined to their
// settings. An empty list is still a successful response here; callers
// render it as an empty table.
func (s *SubPolicyService) ListSubPolicies(ctx context.Context, payload *ListSubPolicyRequest) *response.Envelope {
	if payload.PolicyID == "" {
		return response.Invalid("Policy Id is required")
	}
	policyID, err := primitive.ObjectIDFromHex(payload.PolicyID)
	if err != nil {
		return response.Fault(err)
	}

	rows, err := s.policies.ListWithSettings(ctx, repository.SubPolicyListOptions{
		PolicyID: policyID,
		IsActive: payload.IsActive,
		FrontEnd: payload.FrontEnd,
		Now:      s.now(),
	})
	if err != nil {
		return response.Fault(err)
	}
	if rows == nil {
		rows = []models.SubPolicyWithSetting{}
	}
	return response.Found("Sub Policy list successfully", &SubPolicyListData{
		SubPolicyList: rows,
		Count:         len(rows),
	})
}

// SubPolicyDetail returns one sub-policy with its setting, if any.
func (s *SubPolicyService) SubPolicyDetail(ctx context.Context, id string) *response.Envelope {
	if id == "" {
		return response.Invalid("Sub Policy Id is required")
	}
	subPolicyID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return response.Fault(err)
	}
	subPolicy, err := s.policies.FindByID(ctx, subPolicyID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return response.NotFound("Sub Policy Not found")
		}
		return response.Fault(err)
	}
	setting, err := s.settings.FindBySubPolicy(ctx, subPolicyID)
	if err != nil {
		return response.Fault(err)
	}
	return response.Found("Sub Policy details successfully", &models.SubPolicyWithSetting{
		ID:            subPolicy.ID,
		PolicyID:      subPolicy.PolicyID,
		Name:          subPolicy.Name,
		Version:       subPolicy.Version,
		Description:   subPolicy.Description,
		CreatedAt:     subPolicy.CreatedAt,
		PolicySetting: setting,
	})
}

// DeleteSubPolicy removes a sub-policy.
func (s *SubPolicyService) DeleteSubPolicy(ctx context.Context, id string) *response.Envelope {
	if id == "" {
		return response.Invalid("Sub Policy Id is required")
	}
	subPolicyID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return response.Fault(err)
	}
	deleted, err := s.policies.DeleteByID(ctx, subPolicyID)
	if err != nil {
		return response.Fault(err)
	}
	if deleted == 0 {
		return response.NotFound("Sub Policy Not found")
	}
	return response.Found("Sub Policy deleted successfully", nil)
}

type SavePolicySettingRequest struct {
	SubPolicyID            string    `json:"subPolicyId"`
	PolicyID               string    `json:"policyId,omitempty"`
	PublishDate            time.Time `json:"publishDate"`
	ExamTimeLimit          time.Time `json:"examTimeLimit"`
	MaximumRetemptDaysLeft int       `json:"maximumRettemptDaysLeft"`
	MaximumAttempt         int       `json:"maximumAttempt"`
	MaximumMarks           int       `json:"maximumMarks"`
	MaximumScore           int       `json:"maximumScore"`
	MaximumQuestions       int       `json:"maximumQuestions"`
	TimeLimit              int       `json:"timeLimit"`
}

// SavePolicySetting creates or replaces the exam setting of a
// sub-policy.
func (s *SubPolicyService) SavePolicySetting(ctx context.Context, payload *SavePolicySettingRequest) *response.Envelope {
	if payload.SubPolicyID == "" {
		return response.Invalid("Sub Policy Id is required")
	}
	subPolicyID, err := primitive.ObjectIDFromHex(payload.SubPolicyID)
	if err != nil {
		return response.Fault(err)
	}
	if _, err := s.policies.FindByID(ctx, subPolicyID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return response.NotFound("Sub Policy Not found")
		}
		return response.Fault(err)
	}

	setting := &models.PolicySetting{
		SubPolicyID:            subPolicyID,
		PublishDate:            payload.PublishDate,
		ExamTimeLimit:          payload.ExamTimeLimit,
		MaximumRetemptDaysLeft: payload.MaximumRetemptDaysLeft,
		MaximumAttempt:         payload.MaximumAttempt,
		MaximumMarks:           payload.MaximumMarks,
		MaximumScore:           payload.MaximumScore,
		MaximumQuestions:       payload.MaximumQuestions,
		TimeLimit:              payload.TimeLimit,
	}
	if payload.PolicyID != "" {
		policyID, err := primitive.ObjectIDFromHex(payload.PolicyID)
		if err != nil {
			return response.Fault(err)
		}
		setting.PolicyID = policyID
	}
	if err := s.settings.Upsert(ctx, setting); err != nil {
		return response.Fault(err)
	}
	return response.Found("Policy setting saved successfully", setting)
}

// PolicySettingDetail returns a sub-policy's exam setting.
func (s *SubPolicyService) PolicySettingDetail(ctx context.Context, subPolicyID string) *response.Envelope {
	if subPolicyID == "" {
		return response.Invalid("Sub Policy Id is required")
	}
	id, err := primitive.ObjectIDFromHex(subPolicyID)
	if err != nil {
		return response.Fault(err)
	}
	setting, err := s.settings.FindBySubPolicy(ctx, id)
	if err != nil {
		return response.Fault(err)
	}
	if setting == nil {
		return response.NotFound("Policy setting not found")
	}
	return response.Found("Policy setting details successfully", setting)
}
