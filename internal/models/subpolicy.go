package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubPolicy is a versioned assessment unit under a parent Policy.
type SubPolicy struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PolicyID    primitive.ObjectID `bson:"policyId" json:"policyId"`
	Name        string             `bson:"name" json:"name"`
	Version     string             `bson:"version" json:"version"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    int                `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// PolicySetting is the per-sub-policy exam configuration. A sub-policy owns
// zero or one of these.
type PolicySetting struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SubPolicyID primitive.ObjectID `bson:"subPolicyId" json:"subPolicyId"`
	PolicyID    primitive.ObjectID `bson:"policyId,omitempty" json:"policyId,omitempty"`
	PublishDate time.Time          `bson:"publishDate" json:"publishDate"`
	// ExamTimeLimit is the absolute deadline after which the exam closes.
	ExamTimeLimit          time.Time `bson:"examTimeLimit" json:"examTimeLimit"`
	MaximumRetemptDaysLeft int       `bson:"maximumRettemptDaysLeft" json:"maximumRettemptDaysLeft"`
	MaximumAttempt         int       `bson:"maximumAttempt" json:"maximumAttempt"`
	MaximumMarks           int       `bson:"maximumMarks" json:"maximumMarks"`
	MaximumScore           int       `bson:"maximumScore" json:"maximumScore"`
	MaximumQuestions       int       `bson:"maximumQuestions" json:"maximumQuestions"`
	// TimeLimit is the per-attempt limit in minutes.
	TimeLimit int `bson:"timeLimit" json:"timeLimit"`
}

// SubPolicyWithSetting is the list row joining a sub-policy to its setting.
type SubPolicyWithSetting struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	PolicyID      primitive.ObjectID `bson:"policyId" json:"policyId"`
	Name          string             `bson:"name" json:"name"`
	Version       string             `bson:"version" json:"version"`
	Description   string             `bson:"description" json:"description"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	PolicySetting *PolicySetting     `bson:"policySettings,omitempty" json:"policySettings,omitempty"`
}
