package models

import (
	"time"

	"github.com/google/uuid"
)

type AlertStatus string

const (
	AlertDraft AlertStatus = "draft"
	AlertSent  AlertStatus = "sent"
)

// Alert is an admin broadcast. SentTo is a snapshot of the recipient count
// at send time and is never recomputed.
type Alert struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title     string      `gorm:"size:200;not null" json:"title"`
	Message   string      `gorm:"type:text;not null" json:"message"`
	CreatedBy uuid.UUID   `gorm:"type:uuid;not null" json:"created_by"`
	SentTo    int         `gorm:"not null;default:0" json:"sent_to"`
	Status    AlertStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
}
