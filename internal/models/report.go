package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TermsAcceptance records that an employee accepted a sub-policy's terms.
// An employee is only eligible for (and therefore only outstanding on) a
// sub-policy after acceptance.
type TermsAcceptance struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SubPolicyID primitive.ObjectID `bson:"subPolicyId" json:"subPolicyId"`
	EmployeeID  primitive.ObjectID `bson:"employeeId" json:"employeeId"`
	AcceptedAt  time.Time          `bson:"acceptedAt" json:"acceptedAt"`
}

// DueDateExemption pauses an employee's obligation on a sub-policy until
// the exemption is closed. An open exemption keeps the sub-policy out of
// the outstanding list.
type DueDateExemption struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SubPolicyID primitive.ObjectID `bson:"subPolicyId" json:"subPolicyId"`
	EmployeeID  primitive.ObjectID `bson:"employeeId" json:"employeeId"`
	DueDate     time.Time          `bson:"dueDate" json:"dueDate"`
	IsOpen      int                `bson:"isOpen" json:"isOpen"`
}

// CompletedSubPolicy is one row of the completed report: a sub-policy
// grouped with its setting and the requesting employee's results.
type CompletedSubPolicy struct {
	ID                   primitive.ObjectID `bson:"_id" json:"id"`
	PolicyID             primitive.ObjectID `bson:"policyId" json:"policyId"`
	Name                 string             `bson:"name" json:"name"`
	Version              string             `bson:"version" json:"version"`
	Description          string             `bson:"description" json:"description"`
	PolicySettingDetails []PolicySetting    `bson:"policySettingDetails" json:"policySettingDetails"`
	ResultDetails        []Result           `bson:"resultDetails" json:"resultDetails"`
}

// OutstandingSubPolicy is one row of the outstanding report: an active
// sub-policy the employee accepted terms for but has no result on.
type OutstandingSubPolicy struct {
	ID                   primitive.ObjectID `bson:"_id" json:"id"`
	PolicyID             primitive.ObjectID `bson:"policyId" json:"policyId"`
	Name                 string             `bson:"name" json:"name"`
	Version              string             `bson:"version" json:"version"`
	Description          string             `bson:"description" json:"description"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	PolicySettingDetails []PolicySetting    `bson:"policySettingDetails" json:"policySettingDetails"`
}
