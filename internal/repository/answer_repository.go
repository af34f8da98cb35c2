package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"compliance-service/internal/models"
)

type AnswerRepository struct {
	Col *mongo.Collection
}

func NewAnswerRepository(db *mongo.Database) *AnswerRepository {
	return &AnswerRepository{Col: db.Collection(colAnswers)}
}

func (r *AnswerRepository) InsertMany(ctx context.Context, answers []models.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	docs := make([]interface{}, len(answers))
	for i := range answers {
		docs[i] = answers[i]
	}
	_, err := r.Col.InsertMany(ctx, docs)
	return err
}

func (r *AnswerRepository) CountByResult(ctx context.Context, resultID primitive.ObjectID) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{"resultId": resultID})
}

func (r *AnswerRepository) ListByResult(ctx context.Context, opts AnswerListOptions) ([]models.SubmittedAnswerRow, error) {
	cur, err := r.Col.Aggregate(ctx, SubmittedAnswersPipeline(opts))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var rows []models.SubmittedAnswerRow
	for cur.Next(ctx) {
		var row models.SubmittedAnswerRow
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, cur.Err()
}
