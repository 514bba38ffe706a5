package models

import "time"

// Operation statuses
const (
	OperationPending    = "pending"
	OperationInProgress = "in_progress"
	OperationCompleted  = "completed"
	OperationCancelled  = "cancelled"
)

// MaritimeOperation is one stevedoring operation on a vessel: loading or
// discharging a cargo parcel at a berth, worked by a team.
type MaritimeOperation struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	VesselID            uint       `gorm:"not null;index" json:"vessel_id"`
	Vessel              Vessel     `gorm:"foreignKey:VesselID" json:"vessel"`
	BerthID             *uint      `gorm:"index" json:"berth_id,omitempty"`
	Berth               *Berth     `gorm:"foreignKey:BerthID" json:"berth,omitempty"`
	OperationType       string     `gorm:"type:varchar(20);not null" json:"operation_type"` // loading, discharge
	CargoType           string     `gorm:"type:varchar(50)" json:"cargo_type"`
	CargoTonnage        float64    `gorm:"type:decimal(12,2);default:0" json:"cargo_tonnage"`
	ExpectedRatePerHour float64    `gorm:"type:decimal(10,2);default:0" json:"expected_rate_per_hour"`
	Status              string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Progress            float64    `gorm:"type:decimal(5,2);default:0" json:"progress"` // percent 0-100
	LastProgressUpdate  *time.Time `json:"last_progress_update,omitempty"`
	ETA                 *time.Time `json:"eta,omitempty"`
	ETD                 *time.Time `json:"etd,omitempty"`
	StartTime           *time.Time `json:"start_time,omitempty"`
	EndTime             *time.Time `json:"end_time,omitempty"`
	OperationManagerID  *uint      `gorm:"index" json:"operation_manager_id,omitempty"`
	OperationManager    *User      `gorm:"foreignKey:OperationManagerID" json:"operation_manager,omitempty"`
	TeamID              *uint      `gorm:"index" json:"team_id,omitempty"`
	Team                *Team      `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	SafetyNotes         string     `gorm:"type:text" json:"safety_notes"`
	CreatedAt           time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"not null" json:"updated_at"`
}

// Duration returns the worked time of a completed operation, or zero
// when start/end are missing.
func (op *MaritimeOperation) Duration() time.Duration {
	if op.StartTime == nil || op.EndTime == nil {
		return 0
	}
	return op.EndTime.Sub(*op.StartTime)
}
