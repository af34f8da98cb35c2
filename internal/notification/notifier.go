// Package notification composes result-summary emails and hands them to
// the message queue. Delivery is best effort: a failure here is logged and
// never surfaces on the scoring path.
package notification

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"compliance-service/internal/models"
	"compliance-service/pkg/logger"
)

// Sender accepts a composed email. The queue-backed implementation is the
// default; tests substitute their own.
type Sender interface {
	Send(msg EmailMessage) error
}

type EventPublisher interface {
	Publish(eventType string, payload interface{}) error
}

// QueueSender enqueues the email intent instead of talking to a mail
// provider, so notification latency never sits on the critical path.
type QueueSender struct {
	Publisher EventPublisher
}

func (s *QueueSender) Send(msg EmailMessage) error {
	return s.Publisher.Publish("notification.email", msg)
}

type EmployeeFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error)
}

type SubPolicyFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.SubPolicy, error)
}

type Notifier struct {
	Employees   EmployeeFinder
	SubPolicies SubPolicyFinder
	Sender      Sender
}

func NewNotifier(employees EmployeeFinder, subPolicies SubPolicyFinder, sender Sender) *Notifier {
	return &Notifier{Employees: employees, SubPolicies: subPolicies, Sender: sender}
}

// NotifyResult resolves the recipient and test name, composes the summary
// and enqueues it. Employees with mail opted out are skipped.
func (n *Notifier) NotifyResult(ctx context.Context, result *models.Result) {
	employee, err := n.Employees.FindByID(ctx, result.EmployeeID)
	if err != nil {
		logger.Log.Warn("result notification: employee lookup failed",
			zap.String("employeeId", result.EmployeeID.Hex()), zap.Error(err))
		return
	}
	if employee.IsSendMail == 0 {
		return
	}

	testName := "Compliance Assessment"
	if subPolicy, err := n.SubPolicies.FindByID(ctx, result.SubPolicyID); err == nil {
		testName = subPolicy.Name
	} else {
		logger.Log.Warn("result notification: sub policy lookup failed",
			zap.String("subPolicyId", result.SubPolicyID.Hex()), zap.Error(err))
	}

	subject, htmlBody := ComposeResultEmail(testName, result)
	msg := EmailMessage{To: employee.Email, Subject: subject, HTMLBody: htmlBody}
	if err := n.Sender.Send(msg); err != nil {
		logger.Log.Error("result notification: send failed",
			zap.String("to", employee.Email), zap.Error(err))
	}
}
