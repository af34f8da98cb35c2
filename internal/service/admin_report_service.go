package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"compliance-service/internal/models"
	"compliance-service/internal/repository"
	"compliance-service/internal/response"
)

// CompletionSetStore yields the employees holding at least one result
// for a sub-policy.
type CompletionSetStore interface {
	DistinctEmployeeIDs(ctx context.Context, subPolicyID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// PartitionStore lists employees by role relative to a completion set.
type PartitionStore interface {
	ListPartition(ctx context.Context, p repository.RolePartition) ([]models.Employee, error)
	CountPartition(ctx context.Context, p repository.RolePartition) (int64, error)
}

// AdminReportService builds the admin fleet summary for one sub-policy:
// who in the fleet completed it and who still owes it, split by role.
type AdminReportService struct {
	results   CompletionSetStore
	employees PartitionStore
}

func NewAdminReportService(results CompletionSetStore, employees PartitionStore) *AdminReportService {
	return &AdminReportService{results: results, employees: employees}
}

type FleetSummaryRequest struct {
	SubPolicyID string `json:"subPolicyId"`
	Page
}

// FleetSummaryData carries the four role partitions plus totals. The
// empOutStadingCount spelling is load-bearing: dashboards already read
// that field name.
type FleetSummaryData struct {
	EmpCompletedList        []models.Employee `json:"empCompletedList"`
	EmpCompletedCount       int64             `json:"empCompletedCount"`
	ManagerCompletedList    []models.Employee `json:"managerCompletedList"`
	ManagerCompletedCount   int64             `json:"managerCompletedCount"`
	EmpOutstandingList      []models.Employee `json:"empOutstandingList"`
	EmpOutstandingCount     int64             `json:"empOutStadingCount"`
	ManagerOutstandingList  []models.Employee `json:"managerOutstandingList"`
	ManagerOutstandingCount int64             `json:"managerOutstandingCount"`
	TotalCompletedCount     int64             `json:"totalCompletedCount"`
	TotalOutstandingCount   int64             `json:"totalOutstandingCount"`
	PageNumber              int64             `json:"pageNumber"`
	PageLimit               int64             `json:"pageLimit"`
}

// FleetSummary resolves the completion set once, then loads the four
// partitions concurrently. Each partition pages independently against
// the same set, so completed and outstanding stay disjoint and together
// cover every active employee of the role.
func (s *AdminReportService) FleetSummary(ctx context.Context, payload *FleetSummaryRequest) *response.Envelope {
	if payload.SubPolicyID == "" {
		return response.Invalid("Sub Policy Id is required")
	}
	subPolicyID, err := primitive.ObjectIDFromHex(payload.SubPolicyID)
	if err != nil {
		return response.Fault(err)
	}
	pageNumber, pageLimit, skip := payload.window()

	completedIDs, err := s.results.DistinctEmployeeIDs(ctx, subPolicyID)
	if err != nil {
		return response.Fault(err)
	}

	partitions := []repository.RolePartition{
		{Role: models.RoleEmployee, MemberIDs: completedIDs, Include: true, Skip: skip, Limit: pageLimit},
		{Role: models.RoleLineManager, MemberIDs: completedIDs, Include: true, Skip: skip, Limit: pageLimit},
		{Role: models.RoleEmployee, MemberIDs: completedIDs, Include: false, Skip: skip, Limit: pageLimit},
		{Role: models.RoleLineManager, MemberIDs: completedIDs, Include: false, Skip: skip, Limit: pageLimit},
	}

	lists := make([][]models.Employee, len(partitions))
	counts := make([]int64, len(partitions))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range partitions {
		g.Go(func() error {
			rows, err := s.employees.ListPartition(gctx, p)
			if err != nil {
				return err
			}
			count, err := s.employees.CountPartition(gctx, p)
			if err != nil {
				return err
			}
			if rows == nil {
				rows = []models.Employee{}
			}
			lists[i], counts[i] = rows, count
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return response.Fault(err)
	}

	data := &FleetSummaryData{
		EmpCompletedList:        lists[0],
		EmpCompletedCount:       counts[0],
		ManagerCompletedList:    lists[1],
		ManagerCompletedCount:   counts[1],
		EmpOutstandingList:      lists[2],
		EmpOutstandingCount:     counts[2],
		ManagerOutstandingList:  lists[3],
		ManagerOutstandingCount: counts[3],
		TotalCompletedCount:     counts[0] + counts[1],
		TotalOutstandingCount:   counts[2] + counts[3],
		PageNumber:              pageNumber,
		PageLimit:               pageLimit,
	}
	return response.Found("Employee list successfully", data)
}
