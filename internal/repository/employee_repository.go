package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"compliance-service/internal/models"
)

type EmployeeRepository struct {
	Col *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{Col: db.Collection(colEmployees)}
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error) {
	var employee models.Employee
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&employee)
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// RolePartition selects one fleet-summary partition: active employees of
// one role whose id is in (completed) or not in (outstanding) the
// completion set.
type RolePartition struct {
	Role      models.Role
	MemberIDs []primitive.ObjectID
	Include   bool
	Sort      bson.D
	Skip      int64
	Limit     int64
}

func (p RolePartition) filter() bson.M {
	op := "$nin"
	if p.Include {
		op = "$in"
	}
	ids := p.MemberIDs
	if ids == nil {
		ids = []primitive.ObjectID{}
	}
	return bson.M{
		"role":     p.Role,
		"isActive": 1,
		"_id":      bson.M{op: ids},
	}
}

func (r *EmployeeRepository) ListPartition(ctx context.Context, p RolePartition) ([]models.Employee, error) {
	sort := p.Sort
	if len(sort) == 0 {
		sort = bson.D{{Key: "_id", Value: -1}}
	}
	cur, err := r.Col.Find(ctx, p.filter(),
		options.Find().SetSort(sort).SetSkip(p.Skip).SetLimit(p.Limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var employees []models.Employee
	for cur.Next(ctx) {
		var e models.Employee
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, cur.Err()
}

func (r *EmployeeRepository) CountPartition(ctx context.Context, p RolePartition) (int64, error) {
	return r.Col.CountDocuments(ctx, p.filter())
}
