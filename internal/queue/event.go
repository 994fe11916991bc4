// Package queue moves outgoing email through RabbitMQ: the API publishes,
// cmd/mailer consumes and delivers over SMTP.
package queue

import "time"

// EmailMessage is the JSON payload of the email queue.
type EmailMessage struct {
	To          string    `json:"to"`
	Subject     string    `json:"subject"`
	HTMLBody    string    `json:"html_body"`
	RequestedAt time.Time `json:"requested_at"`
}
