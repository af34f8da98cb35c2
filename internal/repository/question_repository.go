package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"compliance-service/internal/models"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection(colQuestions)}
}

// AnswerProbe pairs a question id with a submitted answer value for the
// batched correctness count.
type AnswerProbe struct {
	QuestionID primitive.ObjectID
	Answer     string
}

// CorrectAnswersFilter builds one $or of (_id, answer) pairs so the whole
// submission is scored by a single count query instead of a query per
// answer.
func CorrectAnswersFilter(probes []AnswerProbe) bson.M {
	or := make(bson.A, 0, len(probes))
	for _, p := range probes {
		or = append(or, bson.M{"$and": bson.A{
			bson.M{"_id": p.QuestionID},
			bson.M{"answer": p.Answer},
		}})
	}
	return bson.M{"$or": or}
}

func (r *QuestionRepository) CountCorrect(ctx context.Context, probes []AnswerProbe) (int64, error) {
	if len(probes) == 0 {
		return 0, nil
	}
	return r.Col.CountDocuments(ctx, CorrectAnswersFilter(probes))
}

func (r *QuestionRepository) FindActive(ctx context.Context, subPolicyID primitive.ObjectID, userGroup string) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, bson.M{
		"subPolicyId": subPolicyID,
		"userGroup":   userGroup,
		"isActive":    1,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, cur.Err()
}

func (r *QuestionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) (primitive.ObjectID, error) {
	res, err := r.Col.InsertOne(ctx, question)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		question.ID = oid
	}
	return question.ID, nil
}

func (r *QuestionRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *QuestionRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *QuestionRepository) ListWithOptions(ctx context.Context, subPolicyID primitive.ObjectID, userGroup, searchText string) ([]models.QuestionWithOptions, error) {
	cur, err := r.Col.Aggregate(ctx, QuestionListPipeline(subPolicyID, userGroup, searchText))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var rows []models.QuestionWithOptions
	for cur.Next(ctx) {
		var row models.QuestionWithOptions
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, cur.Err()
}

func (r *QuestionRepository) DetailWithOptions(ctx context.Context, id primitive.ObjectID) (*models.QuestionWithOptions, error) {
	cur, err := r.Col.Aggregate(ctx, QuestionDetailPipeline(id))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, err
		}
		return nil, mongo.ErrNoDocuments
	}
	var row models.QuestionWithOptions
	if err := cur.Decode(&row); err != nil {
		return nil, err
	}
	return &row, nil
}
