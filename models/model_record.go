package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ModelStatus string

const (
	ModelDeployed ModelStatus = "deployed"
	ModelStaging  ModelStatus = "staging"
	ModelArchived ModelStatus = "archived"
)

// ModelRecord registers an ML model version. At most one record is deployed
// at any time; deploying a new version demotes the previous one to staging.
type ModelRecord struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Version   string         `gorm:"size:50;uniqueIndex;not null" json:"version"`
	Metrics   datatypes.JSON `gorm:"type:jsonb" json:"metrics,omitempty"`
	Status    ModelStatus    `gorm:"type:varchar(20);not null;default:'staging'" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
