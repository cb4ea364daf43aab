package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/medidetect/medidetect-backend/models"
)

func alertUser(status models.UserStatus, wantsAlerts bool) models.User {
	return models.User{
		ID:                uuid.New(),
		Email:             uuid.NewString() + "@example.com",
		Status:            status,
		NotifyAdminAlerts: wantsAlerts,
	}
}

func TestAlertRecipients_FiltersInactiveAndOptedOut(t *testing.T) {
	users := []models.User{
		alertUser(models.StatusActive, true),
		alertUser(models.StatusActive, true),
		alertUser(models.StatusActive, true),
		alertUser(models.StatusInactive, true),
		alertUser(models.StatusActive, false),
		alertUser(models.StatusSuspended, true),
	}

	recipients := AlertRecipients(users)
	assert.Len(t, recipients, 3)
	for _, r := range recipients {
		assert.Equal(t, models.StatusActive, r.Status)
		assert.True(t, r.NotifyAdminAlerts)
	}
}

func TestDispatchAlertEmails_SendsOncePerRecipient(t *testing.T) {
	recipients := []models.User{
		alertUser(models.StatusActive, true),
		alertUser(models.StatusActive, true),
		alertUser(models.StatusActive, true),
	}

	calls := 0
	DispatchAlertEmails(recipients, "Maintenance", "Scheduled downtime tonight.", func(to, subject, body string) error {
		calls++
		assert.Contains(t, subject, "Maintenance")
		return nil
	})

	assert.Equal(t, 3, calls)
}

func TestDispatchAlertEmails_FailureDoesNotStopDelivery(t *testing.T) {
	recipients := []models.User{
		alertUser(models.StatusActive, true),
		alertUser(models.StatusActive, true),
	}

	calls := 0
	DispatchAlertEmails(recipients, "Test", "msg", func(to, subject, body string) error {
		calls++
		return errors.New("smtp down")
	})

	// Every recipient is attempted even when sends fail
	assert.Equal(t, 2, calls)
}
