package mailer

import tpl "github.com/finchlabs/finch/pkg/mailer/templates"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template selects one of the embedded template sets; Data feeds it.
// Subject/Text/HTML may be set directly for pre-rendered mail.
type EmailJob struct {
	To       string        `json:"to"`
	Subject  string        `json:"subject,omitempty"`
	Text     string        `json:"text,omitempty"`
	HTML     string        `json:"html,omitempty"`
	Template string        `json:"template,omitempty"` // e.g. "confirm_account", "password_reset"
	Data     tpl.EmailData `json:"data"`
}
