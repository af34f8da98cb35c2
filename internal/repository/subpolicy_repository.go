package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"compliance-service/internal/models"
)

type SubPolicyRepository struct {
	Col *mongo.Collection
}

func NewSubPolicyRepository(db *mongo.Database) *SubPolicyRepository {
	return &SubPolicyRepository{Col: db.Collection(colSubPolicies)}
}

func (r *SubPolicyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.SubPolicy, error) {
	var subPolicy models.SubPolicy
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&subPolicy)
	if err != nil {
		return nil, err
	}
	return &subPolicy, nil
}

// FindByNameVersion returns nil without error when no duplicate exists.
func (r *SubPolicyRepository) FindByNameVersion(ctx context.Context, name, version string) (*models.SubPolicy, error) {
	var subPolicy models.SubPolicy
	err := r.Col.FindOne(ctx, bson.M{"name": name, "version": version}).Decode(&subPolicy)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &subPolicy, nil
}

func (r *SubPolicyRepository) Create(ctx context.Context, subPolicy *models.SubPolicy) (primitive.ObjectID, error) {
	res, err := r.Col.InsertOne(ctx, subPolicy)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		subPolicy.ID = oid
	}
	return subPolicy.ID, nil
}

func (r *SubPolicyRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *SubPolicyRepository) ListWithSettings(ctx context.Context, opts SubPolicyListOptions) ([]models.SubPolicyWithSetting, error) {
	cur, err := r.Col.Aggregate(ctx, SubPolicyListPipeline(opts))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var rows []models.SubPolicyWithSetting
	for cur.Next(ctx) {
		var row models.SubPolicyWithSetting
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, cur.Err()
}

func (r *SubPolicyRepository) CompletedForEmployee(ctx context.Context, opts ReportOptions) ([]models.CompletedSubPolicy, error) {
	cur, err := r.Col.Aggregate(ctx, CompletedPipeline(opts))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var rows []models.CompletedSubPolicy
	for cur.Next(ctx) {
		var row models.CompletedSubPolicy
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, cur.Err()
}

func (r *SubPolicyRepository) CountCompletedForEmployee(ctx context.Context, opts ReportOptions) (int64, error) {
	return r.runCount(ctx, CompletedCountPipeline(opts))
}

func (r *SubPolicyRepository) OutstandingForEmployee(ctx context.Context, opts ReportOptions) ([]models.OutstandingSubPolicy, error) {
	cur, err := r.Col.Aggregate(ctx, OutstandingPipeline(opts))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var rows []models.OutstandingSubPolicy
	for cur.Next(ctx) {
		var row models.OutstandingSubPolicy
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, cur.Err()
}

func (r *SubPolicyRepository) CountOutstandingForEmployee(ctx context.Context, opts ReportOptions) (int64, error) {
	return r.runCount(ctx, OutstandingCountPipeline(opts))
}

func (r *SubPolicyRepository) runCount(ctx context.Context, p mongo.Pipeline) (int64, error) {
	cur, err := r.Col.Aggregate(ctx, p)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)
	if !cur.Next(ctx) {
		// $count emits nothing over an empty stream.
		return 0, cur.Err()
	}
	var doc struct {
		Count int64 `bson:"count"`
	}
	if err := cur.Decode(&doc); err != nil {
		return 0, err
	}
	return doc.Count, nil
}
