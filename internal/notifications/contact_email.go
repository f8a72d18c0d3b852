package notifications

import (
	"bytes"
	"html/template"
	"time"
)

type ContactMessage struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	Subject     string
	Message     string
	SubmittedAt time.Time
}

func (m ContactMessage) FullName() string {
	return m.FirstName + " " + m.LastName
}

const contactNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h2>New Contact Form Submission</h2>
  <p><strong>From:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <p><strong>Message:</strong></p>
  <p>{{.Message}}</p>
  <hr>
  <p><em>Submitted on: {{.SubmittedAt}}</em></p>
  <p><em>Contact ID: {{.ContactID}}</em></p>
</body>
</html>`

var contactNotificationTmpl = template.Must(template.New("contact_notification").Parse(contactNotificationTemplate))

type contactNotificationData struct {
	Name        string
	Email       string
	Subject     string
	Message     string
	SubmittedAt string
	ContactID   string
}

func buildContactNotificationHTML(msg ContactMessage) (string, error) {
	submitted := msg.SubmittedAt
	if submitted.IsZero() {
		submitted = time.Now()
	}
	data := contactNotificationData{
		Name:        msg.FullName(),
		Email:       msg.Email,
		Subject:     msg.Subject,
		Message:     msg.Message,
		SubmittedAt: submitted.Format("Jan 2, 2006 15:04 MST"),
		ContactID:   msg.ID,
	}
	var buf bytes.Buffer
	if err := contactNotificationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
