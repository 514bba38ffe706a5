package models

import (
	"encoding/json"
	"time"
)

// Alert severities
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// ValidSeverity reports whether s is one of the four known severities.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError, SeverityCritical:
		return true
	}
	return false
}

// Alert is one advisory notification about an operational condition.
// AlertCode identifies the logical condition instance and is used to
// prevent duplicate active alerts for the same condition.
type Alert struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	Title         string             `gorm:"type:varchar(150);not null" json:"title"`
	Message       string             `gorm:"type:text;not null" json:"message"`
	Severity      string             `gorm:"type:varchar(20);not null;default:'info'" json:"severity"`
	Icon          string             `gorm:"type:varchar(50)" json:"icon"`
	OperationID   *uint              `gorm:"index" json:"operation_id,omitempty"`
	Operation     *MaritimeOperation `gorm:"foreignKey:OperationID" json:"operation,omitempty"`
	VesselID      *uint              `gorm:"index" json:"vessel_id,omitempty"`
	Vessel        *Vessel            `gorm:"foreignKey:VesselID" json:"vessel,omitempty"`
	UserID        *uint              `json:"user_id,omitempty"`
	AlertType     string             `gorm:"type:varchar(50);index" json:"alert_type"`
	AlertCode     string             `gorm:"type:varchar(120);index" json:"alert_code"`
	Metadata      string             `gorm:"type:text" json:"-"`
	CreatedAt     time.Time          `gorm:"not null;index" json:"created_at"`
	DismissedAt   *time.Time         `json:"dismissed_at,omitempty"`
	DismissedBy   *uint              `json:"dismissed_by,omitempty"`
	AutoDismissAt *time.Time         `json:"auto_dismiss_at,omitempty"`
	IsActive      bool               `gorm:"not null;default:true;index" json:"is_active"`
}

// IsDismissed reports whether a user dismissed this alert.
func (a *Alert) IsDismissed() bool {
	return a.DismissedAt != nil
}

// IsExpired reports whether the alert passed its auto-dismiss time.
func (a *Alert) IsExpired(now time.Time) bool {
	return a.AutoDismissAt != nil && !now.Before(*a.AutoDismissAt)
}

// IsDisplayable reports whether the alert should still be shown:
// active, not dismissed, and not past its auto-dismiss time.
func (a *Alert) IsDisplayable(now time.Time) bool {
	return a.IsActive && !a.IsDismissed() && !a.IsExpired(now)
}

// SetMetadata serializes the structured payload into the text column.
func (a *Alert) SetMetadata(data map[string]interface{}) error {
	if data == nil {
		a.Metadata = ""
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	a.Metadata = string(raw)
	return nil
}

// GetMetadata parses the text column back into a map. An empty or
// malformed column yields an empty map.
func (a *Alert) GetMetadata() map[string]interface{} {
	out := make(map[string]interface{})
	if a.Metadata == "" {
		return out
	}
	if err := json.Unmarshal([]byte(a.Metadata), &out); err != nil {
		return make(map[string]interface{})
	}
	return out
}
