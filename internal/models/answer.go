package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Answer is one question's submitted response within a single Result.
// Immutable once written; every answer of a submission carries the id of
// the Result created by that submission.
type Answer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SubPolicyID primitive.ObjectID `bson:"subPolicyId" json:"subPolicyId"`
	QuestionID  primitive.ObjectID `bson:"questionId" json:"questionId"`
	ResultID    primitive.ObjectID `bson:"resultId" json:"resultId"`
	EmployeeID  primitive.ObjectID `bson:"employeeId" json:"employeeId"`
	Answer      string             `bson:"answer" json:"answer"`
	CreatedBy   primitive.ObjectID `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// AnswerStatus labels derived per row by the submitted-answers pipeline.
const (
	AnswerStatusCorrect    = "CORRECT"
	AnswerStatusIncorrect  = "INCORRECT"
	AnswerStatusUnanswered = "UNANSWERED"
)

// SubmittedAnswerRow is an answer enriched with its question and option
// details, produced by the submitted-answers aggregation.
type SubmittedAnswerRow struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	QuestionID     primitive.ObjectID `bson:"questionId" json:"questionId"`
	Answer         string             `bson:"answer" json:"answer"`
	AnswerStatus   string             `bson:"answerStatus" json:"answerStatus"`
	QuestionText   string             `bson:"questionText" json:"questionText"`
	QuestionType   QuestionType       `bson:"questionType" json:"questionType"`
	OptionsDetails []Option           `bson:"optionsDetails" json:"optionsDetails"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
