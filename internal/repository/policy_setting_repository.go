package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"compliance-service/internal/models"
)

type PolicySettingRepository struct {
	Col *mongo.Collection
}

func NewPolicySettingRepository(db *mongo.Database) *PolicySettingRepository {
	return &PolicySettingRepository{Col: db.Collection(colPolicySettings)}
}

// FindBySubPolicy returns nil without error when the sub-policy has no
// setting; a sub-policy owns zero or one.
func (r *PolicySettingRepository) FindBySubPolicy(ctx context.Context, subPolicyID primitive.ObjectID) (*models.PolicySetting, error) {
	var setting models.PolicySetting
	err := r.Col.FindOne(ctx, bson.M{"subPolicyId": subPolicyID}).Decode(&setting)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *PolicySettingRepository) Create(ctx context.Context, setting *models.PolicySetting) (primitive.ObjectID, error) {
	res, err := r.Col.InsertOne(ctx, setting)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		setting.ID = oid
	}
	return setting.ID, nil
}

// Upsert replaces the sub-policy's setting, keeping the zero-or-one
// ownership invariant.
func (r *PolicySettingRepository) Upsert(ctx context.Context, setting *models.PolicySetting) error {
	update := bson.M{"$set": setting}
	_, err := r.Col.UpdateOne(ctx, bson.M{"subPolicyId": setting.SubPolicyID}, update,
		options.Update().SetUpsert(true))
	return err
}
