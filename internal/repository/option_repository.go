package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"compliance-service/internal/models"
)

type OptionRepository struct {
	Col *mongo.Collection
}

func NewOptionRepository(db *mongo.Database) *OptionRepository {
	return &OptionRepository{Col: db.Collection(colOptions)}
}

func (r *OptionRepository) InsertMany(ctx context.Context, opts []models.Option) error {
	if len(opts) == 0 {
		return nil
	}
	docs := make([]interface{}, len(opts))
	for i := range opts {
		docs[i] = opts[i]
	}
	_, err := r.Col.InsertMany(ctx, docs)
	return err
}

// DeleteByQuestion removes every option of a question; question updates
// replace the full option set.
func (r *OptionRepository) DeleteByQuestion(ctx context.Context, questionID primitive.ObjectID) error {
	_, err := r.Col.DeleteMany(ctx, bson.M{"questionId": questionID})
	return err
}

// FindByQuestions fetches the options of a whole question set in one
// query, grouped by question id.
func (r *OptionRepository) FindByQuestions(ctx context.Context, questionIDs []primitive.ObjectID) (map[primitive.ObjectID][]models.Option, error) {
	grouped := make(map[primitive.ObjectID][]models.Option, len(questionIDs))
	if len(questionIDs) == 0 {
		return grouped, nil
	}
	cur, err := r.Col.Find(ctx, bson.M{"questionId": bson.M{"$in": questionIDs}},
		options.Find().SetSort(bson.D{{Key: "questionId", Value: 1}, {Key: "optionId", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var o models.Option
		if err := cur.Decode(&o); err != nil {
			return nil, err
		}
		grouped[o.QuestionID] = append(grouped[o.QuestionID], o)
	}
	return grouped, cur.Err()
}
