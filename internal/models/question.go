package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type QuestionType string

const (
	QuestionTypeMCQ      QuestionType = "MCQ"
	QuestionTypeBoolean  QuestionType = "BOOLEAN"
	QuestionTypeCheckbox QuestionType = "CHECKBOX"
)

type Question struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SubPolicyID  primitive.ObjectID `bson:"subPolicyId" json:"subPolicyId"`
	UserGroup    string             `bson:"userGroup" json:"userGroup"`
	QuestionText string             `bson:"questionText" json:"questionText"`
	QuestionType QuestionType       `bson:"questionType" json:"questionType"`
	// Answer holds the correct-answer key; compared by exact value equality
	// against submitted answers.
	Answer    string             `bson:"answer" json:"-"`
	IsActive  int                `bson:"isActive" json:"isActive"`
	CreatedBy primitive.ObjectID `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Option is one selectable choice of a question. OptionIndex is the 1-based
// display position. Options are fully replaced, never patched, when their
// question is updated.
type Option struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	QuestionID  primitive.ObjectID `bson:"questionId" json:"questionId"`
	OptionText  string             `bson:"optionText" json:"optionText"`
	OptionIndex int                `bson:"optionId" json:"optionId"`
}

// QuestionWithOptions is the aggregation row joining a question to its
// options, as returned by the question list and detail pipelines.
type QuestionWithOptions struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	SubPolicyID    primitive.ObjectID `bson:"subPolicyId" json:"subPolicyId"`
	UserGroup      string             `bson:"userGroup" json:"userGroup"`
	QuestionText   string             `bson:"questionText" json:"questionText"`
	QuestionType   QuestionType       `bson:"questionType" json:"questionType"`
	OptionsDetails []Option           `bson:"optionsDetails" json:"optionsDetails"`
}
