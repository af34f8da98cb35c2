package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResultStatus is stored numerically: 1 = PASS, 2 = FAIL.
type ResultStatus int

const (
	ResultStatusPass ResultStatus = 1
	ResultStatusFail ResultStatus = 2
)

func (s ResultStatus) Label() string {
	if s == ResultStatusPass {
		return "PASS"
	}
	return "FAIL"
}

// Result is one completed exam attempt's outcome. Created exactly once per
// attempt and never updated.
type Result struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SubPolicyID  primitive.ObjectID `bson:"subPolicyId" json:"subPolicyId"`
	EmployeeID   primitive.ObjectID `bson:"employeeId" json:"employeeId"`
	Score        float64            `bson:"score" json:"score"`
	ResultStatus ResultStatus       `bson:"resultStatus" json:"resultStatus"`
	// Duration is the time the employee took, in seconds.
	Duration   int                `bson:"duration" json:"duration"`
	SubmitDate time.Time          `bson:"submitDate" json:"submitDate"`
	CreatedBy  primitive.ObjectID `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}
