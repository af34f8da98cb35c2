package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"compliance-service/internal/models"
	"compliance-service/internal/repository"
	"compliance-service/internal/response"
)

// ReportStore runs the completed/outstanding report joins. The count
// methods see the same filtered set as the page methods; both are driven
// by the same options so the two can never disagree for one request.
type ReportStore interface {
	CompletedForEmployee(ctx context.Context, opts repository.ReportOptions) ([]models.CompletedSubPolicy, error)
	CountCompletedForEmployee(ctx context.Context, opts repository.ReportOptions) (int64, error)
	OutstandingForEmployee(ctx context.Context, opts repository.ReportOptions) ([]models.OutstandingSubPolicy, error)
	CountOutstandingForEmployee(ctx context.Context, opts repository.ReportOptions) (int64, error)
}

// ReportService answers "what has this employee completed" and "what
// remains outstanding".
type ReportService struct {
	store ReportStore
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store}
}

type ReportRequest struct {
	// EmployeeID defaults to the authenticated identity; admins may query
	// another employee explicitly.
	EmployeeID string   `json:"employeeId,omitempty"`
	SearchText string   `json:"searchText,omitempty"`
	OrderBy    *OrderBy `json:"orderBy,omitempty"`
	Page
}

type CompletedListData struct {
	SubPolicyList []models.CompletedSubPolicy `json:"subPolicyList"`
	Count         int64                       `json:"count"`
	PageNumber    int64                       `json:"pageNumber"`
	PageLimit     int64                       `json:"pageLimit"`
}

type OutstandingListData struct {
	SubPolicyList []models.OutstandingSubPolicy `json:"subPolicyList"`
	Count         int64                         `json:"count"`
	PageNumber    int64                         `json:"pageNumber"`
	PageLimit     int64                         `json:"pageLimit"`
}

func (r *ReportRequest) reportOptions() (repository.ReportOptions, int64, int64, *response.Envelope) {
	if r.EmployeeID == "" {
		return repository.ReportOptions{}, 0, 0, response.Invalid("Employee Id is required")
	}
	employeeID, err := primitive.ObjectIDFromHex(r.EmployeeID)
	if err != nil {
		return repository.ReportOptions{}, 0, 0, response.Fault(err)
	}
	pageNumber, pageLimit, skip := r.window()
	opts := repository.ReportOptions{
		EmployeeID: employeeID,
		SearchText: r.SearchText,
		Sort:       r.sort(),
		Skip:       skip,
		Limit:      pageLimit,
		Paged:      true,
	}
	return opts, pageNumber, pageLimit, nil
}

func (r *ReportRequest) sort() bson.D {
	if r.OrderBy == nil {
		return nil
	}
	if r.OrderBy.Name != 0 {
		return bson.D{{Key: "name", Value: direction(r.OrderBy.Name)}}
	}
	if r.OrderBy.Result != 0 {
		return bson.D{{Key: "resultDetails.createdAt", Value: direction(r.OrderBy.Result)}}
	}
	return nil
}

// CompletedList returns the active sub-policies the employee holds at
// least one result on, each grouped with that employee's results.
func (s *ReportService) CompletedList(ctx context.Context, payload *ReportRequest) *response.Envelope {
	opts, pageNumber, pageLimit, env := payload.reportOptions()
	if env != nil {
		return env
	}

	count, err := s.store.CountCompletedForEmployee(ctx, opts)
	if err != nil {
		return response.Fault(err)
	}
	data := &CompletedListData{
		SubPolicyList: []models.CompletedSubPolicy{},
		Count:         count,
		PageNumber:    pageNumber,
		PageLimit:     pageLimit,
	}
	if count == 0 {
		return response.Empty("Not Found", data)
	}

	rows, err := s.store.CompletedForEmployee(ctx, opts)
	if err != nil {
		return response.Fault(err)
	}
	data.SubPolicyList = rows
	return response.Found("Result list successfully", data)
}

// OutstandingList returns the active sub-policies the employee is
// eligible for but has not completed. The store evaluates the complement
// as an anti-join scoped to this employee, so other employees' results
// never hide a sub-policy.
func (s *ReportService) OutstandingList(ctx context.Context, payload *ReportRequest) *response.Envelope {
	opts, pageNumber, pageLimit, env := payload.reportOptions()
	if env != nil {
		return env
	}
	if opts.Sort != nil && opts.Sort[0].Key == "resultDetails.createdAt" {
		// Outstanding rows have no results to sort by.
		opts.Sort = nil
	}

	count, err := s.store.CountOutstandingForEmployee(ctx, opts)
	if err != nil {
		return response.Fault(err)
	}
	data := &OutstandingListData{
		SubPolicyList: []models.OutstandingSubPolicy{},
		Count:         count,
		PageNumber:    pageNumber,
		PageLimit:     pageLimit,
	}
	if count == 0 {
		return response.Empty("Not Found", data)
	}

	rows, err := s.store.OutstandingForEmployee(ctx, opts)
	if err != nil {
		return response.Fault(err)
	}
	data.SubPolicyList = rows
	return response.Found("Result list successfully", data)
}
