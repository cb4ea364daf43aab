package services

import (
	"log"

	"github.com/medidetect/medidetect-backend/models"
)

// EmailSender abstracts the mail dispatcher so alert delivery can be stubbed
// out in tests.
type EmailSender func(to, subject, body string) error

// AlertRecipients keeps only active users who opted into admin alerts.
func AlertRecipients(users []models.User) []models.User {
	var out []models.User
	for _, u := range users {
		if u.Status == models.StatusActive && u.NotifyAdminAlerts {
			out = append(out, u)
		}
	}
	return out
}

// DispatchAlertEmails sends the alert to every recipient. Individual
// failures are logged and never propagated; the alert itself stays sent.
func DispatchAlertEmails(recipients []models.User, title, message string, send EmailSender) {
	body := `
	<h3>` + title + `</h3>
	<p>` + message + `</p>
	<hr>
	<p><i>This is an automated MediDetect notification, please do not reply.</i></p>
	`
	for _, u := range recipients {
		if err := send(u.Email, "[MediDetect] "+title, body); err != nil {
			log.Printf("alert email to %s failed: %v", u.Email, err)
		}
	}
}
