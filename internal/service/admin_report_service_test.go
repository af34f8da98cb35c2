package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"compliance-service/internal/models"
	"compliance-service/internal/repository"
)

// fakeFleetStore derives each partition from one in-memory roster so the
// disjointness of completed and outstanding is a property of the data,
// not of the fake.
type fakeFleetStore struct {
	mu          sync.Mutex
	roster      []models.Employee
	completedBy map[primitive.ObjectID]bool
}

func (f *fakeFleetStore) DistinctEmployeeIDs(ctx context.Context, subPolicyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for id := range f.completedBy {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeFleetStore) members(p repository.RolePartition) []models.Employee {
	in := make(map[primitive.ObjectID]bool, len(p.MemberIDs))
	for _, id := range p.MemberIDs {
		in[id] = true
	}
	var out []models.Employee
	for _, e := range f.roster {
		if e.Role != p.Role || e.IsActive != 1 {
			continue
		}
		if in[e.ID] == p.Include {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeFleetStore) ListPartition(ctx context.Context, p repository.RolePartition) ([]models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	members := f.members(p)
	if p.Skip >= int64(len(members)) {
		return nil, nil
	}
	members = members[p.Skip:]
	if p.Limit > 0 && int64(len(members)) > p.Limit {
		members = members[:p.Limit]
	}
	return members, nil
}

func (f *fakeFleetStore) CountPartition(ctx context.Context, p repository.RolePartition) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.members(p))), nil
}

func fleetFixture(employees, managers, employeesDone, managersDone int) *fakeFleetStore {
	store := &fakeFleetStore{completedBy: map[primitive.ObjectID]bool{}}
	add := func(role models.Role, n, done int) {
		for i := 0; i < n; i++ {
			e := models.Employee{ID: primitive.NewObjectID(), Role: role, IsActive: 1}
			store.roster = append(store.roster, e)
			if i < done {
				store.completedBy[e.ID] = true
			}
		}
	}
	add(models.RoleEmployee, employees, employeesDone)
	add(models.RoleLineManager, managers, managersDone)
	return store
}

func TestFleetSummaryPartitionsAreDisjointAndCovering(t *testing.T) {
	store := fleetFixture(10, 3, 4, 1)
	svc := NewAdminReportService(store, store)

	env := svc.FleetSummary(context.Background(), &FleetSummaryRequest{
		SubPolicyID: primitive.NewObjectID().Hex(),
		Page:        Page{PageNumber: 1, PageLimit: 50},
	})

	if env.Code != http.StatusOK {
		t.Fatalf("code = %d (%s)", env.Code, env.Message)
	}
	data := env.Data.(*FleetSummaryData)
	if data.EmpCompletedCount != 4 || data.EmpOutstandingCount != 6 {
		t.Errorf("employee split = %d/%d, want 4/6",
			data.EmpCompletedCount, data.EmpOutstandingCount)
	}
	if data.ManagerCompletedCount != 1 || data.ManagerOutstandingCount != 2 {
		t.Errorf("manager split = %d/%d, want 1/2",
			data.ManagerCompletedCount, data.ManagerOutstandingCount)
	}
	if data.TotalCompletedCount != 5 || data.TotalOutstandingCount != 8 {
		t.Errorf("totals = %d/%d, want 5/8",
			data.TotalCompletedCount, data.TotalOutstandingCount)
	}

	seen := map[primitive.ObjectID]bool{}
	for _, list := range [][]models.Employee{
		data.EmpCompletedList, data.ManagerCompletedList,
		data.EmpOutstandingList, data.ManagerOutstandingList,
	} {
		for _, e := range list {
			if seen[e.ID] {
				t.Errorf("employee %v appears in two partitions", e.ID)
			}
			seen[e.ID] = true
		}
	}
	if len(seen) != 13 {
		t.Errorf("partitions cover %d employees, want 13", len(seen))
	}
}

func TestFleetSummaryNobodyCompleted(t *testing.T) {
	store := fleetFixture(5, 2, 0, 0)
	svc := NewAdminReportService(store, store)

	env := svc.FleetSummary(context.Background(), &FleetSummaryRequest{
		SubPolicyID: primitive.NewObjectID().Hex(),
	})

	if env.Code != http.StatusOK {
		t.Fatalf("code = %d (%s)", env.Code, env.Message)
	}
	data := env.Data.(*FleetSummaryData)
	if data.TotalCompletedCount != 0 {
		t.Errorf("totalCompletedCount = %d", data.TotalCompletedCount)
	}
	if data.TotalOutstandingCount != 7 {
		t.Errorf("totalOutstandingCount = %d, want 7", data.TotalOutstandingCount)
	}
	if len(data.EmpCompletedList) != 0 || len(data.ManagerCompletedList) != 0 {
		t.Error("completed lists must be empty, not nil-collapsed rows")
	}
}

func TestFleetSummaryRequiresSubPolicy(t *testing.T) {
	store := fleetFixture(1, 1, 0, 0)
	svc := NewAdminReportService(store, store)

	env := svc.FleetSummary(context.Background(), &FleetSummaryRequest{})

	if env.Code != http.StatusBadRequest || env.Message != "Sub Policy Id is required" {
		t.Fatalf("got %d %q", env.Code, env.Message)
	}
}

func TestFleetSummaryPagesEachPartition(t *testing.T) {
	store := fleetFixture(12, 0, 0, 0)
	svc := NewAdminReportService(store, store)

	env := svc.FleetSummary(context.Background(), &FleetSummaryRequest{
		SubPolicyID: primitive.NewObjectID().Hex(),
		Page:        Page{PageNumber: 2, PageLimit: 5},
	})

	data := env.Data.(*FleetSummaryData)
	if len(data.EmpOutstandingList) != 5 {
		t.Errorf("page 2 of 12 with limit 5 = %d rows, want 5", len(data.EmpOutstandingList))
	}
	if data.EmpOutstandingCount != 12 {
		t.Errorf("count = %d, want 12 regardless of page", data.EmpOutstandingCount)
	}
	if data.PageNumber != 2 || data.PageLimit != 5 {
		t.Errorf("page meta = %d/%d", data.PageNumber, data.PageLimit)
	}
}
