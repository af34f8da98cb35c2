package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"compliance-service/internal/models"
)

type ResultRepository struct {
	Col *mongo.Collection
}

func NewResultRepository(db *mongo.Database) *ResultRepository {
	return &ResultRepository{Col: db.Collection(colResults)}
}

func (r *ResultRepository) Create(ctx context.Context, result *models.Result) (primitive.ObjectID, error) {
	res, err := r.Col.InsertOne(ctx, result)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		result.ID = oid
	}
	return result.ID, nil
}

// Delete removes an orphaned result after its answer batch failed to
// persist.
func (r *ResultRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *ResultRepository) CountAttempts(ctx context.Context, subPolicyID, employeeID primitive.ObjectID) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{
		"subPolicyId": subPolicyID,
		"employeeId":  employeeID,
	})
}

// DistinctEmployeeIDs returns the set of employees holding at least one
// result for the sub-policy; it is the completion set the fleet summary
// partitions against.
func (r *ResultRepository) DistinctEmployeeIDs(ctx context.Context, subPolicyID primitive.ObjectID) ([]primitive.ObjectID, error) {
	values, err := r.Col.Distinct(ctx, "employeeId", bson.M{"subPolicyId": subPolicyID})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if oid, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, oid)
		}
	}
	return ids, nil
}

func (r *ResultRepository) FindByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.Result, error) {
	cur, err := r.Col.Find(ctx, bson.M{"employeeId": employeeID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var results []models.Result
	for cur.Next(ctx) {
		var res models.Result
		if err := cur.Decode(&res); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, cur.Err()
}
