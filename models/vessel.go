package models

import "time"

// Vessel statuses
const (
	VesselExpected = "expected"
	VesselDocked   = "docked"
	VesselDeparted = "departed"
)

type Vessel struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"type:varchar(255);not null" json:"name"`
	IMONumber  string `gorm:"type:varchar(20);unique" json:"imo_number"`
	VesselType string `gorm:"type:varchar(50)" json:"vessel_type"` // bulk_carrier, container, ro_ro
	Flag       string `gorm:"type:varchar(50)" json:"flag"`
	Status     string `gorm:"type:varchar(20);not null;default:'expected'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
