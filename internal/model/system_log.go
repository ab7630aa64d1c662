package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EventCheckIn      = "check_in"
	EventCheckInError = "check_in_error"
	EventAdminLogin   = "admin_login"
)

const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// SystemLog: запись журнала событий, которую опрашивает админка
type SystemLog struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	Message   string            `json:"message" gorm:"type:text;not null"`
	EventType string            `json:"eventType" gorm:"type:varchar(64);index;not null"`
	Severity  string            `json:"severity" gorm:"type:varchar(16);index;not null"`
	Details   datatypes.JSONMap `json:"details" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"createdAt" gorm:"autoCreateTime"`
}
