package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleEmployee    Role = "EMPLOYEE"
	RoleLineManager Role = "LINEMANAGER"
)

// Employee is owned by the identity collaborator; only the fields the
// scoring and reporting paths read are mapped here.
type Employee struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName        string             `bson:"firstName" json:"firstName"`
	LastName         string             `bson:"lastName" json:"lastName"`
	Email            string             `bson:"email" json:"email"`
	Role             Role               `bson:"role" json:"role"`
	EmployeeIdentity string             `bson:"employeeIdentity,omitempty" json:"employeeIdentity,omitempty"`
	JobTitle         string             `bson:"jobTitle,omitempty" json:"jobTitle,omitempty"`
	IsActive         int                `bson:"isActive" json:"isActive"`
	IsSendMail       int                `bson:"isSendMail" json:"isSendMail"`
	DateOfJoining    time.Time          `bson:"dateOfJoining,omitempty" json:"dateOfJoining,omitempty"`
}
