package notification

import (
	"fmt"

	"compliance-service/internal/models"
)

// EmailMessage is the queue payload the mailer worker consumes.
type EmailMessage struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"htmlBody"`
}

// FormatDuration renders a duration in seconds the way the result email
// shows it, e.g. "1h 02m 05s" or "12m 30s".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	}
	return fmt.Sprintf("%dm %02ds", m, s)
}

// ComposeResultEmail builds the result-summary subject and HTML body.
func ComposeResultEmail(testName string, result *models.Result) (subject, htmlBody string) {
	label := result.ResultStatus.Label()
	subject = fmt.Sprintf("Assessment Result: %s", testName)
	htmlBody = fmt.Sprintf(
		`<p>Dear Employee,</p>
<p>Your assessment <strong>%s</strong> has been evaluated.</p>
<table>
<tr><td>Score</td><td>%.2f</td></tr>
<tr><td>Result</td><td>%s</td></tr>
<tr><td>Time Taken</td><td>%s</td></tr>
<tr><td>Submitted</td><td>%s</td></tr>
</table>
<p>Regards,<br/>Compliance Team</p>`,
		testName,
		result.Score,
		label,
		FormatDuration(result.Duration),
		result.SubmitDate.Format("02 Jan 2006 15:04"),
	)
	return subject, htmlBody
}
