package models

import "time"

// TotalBerths is the number of physical berths at the terminal.
// Capacity checks compute utilization against this fixed count.
const TotalBerths = 3

// Berth statuses
const (
	BerthAvailable   = "available"
	BerthOccupied    = "occupied"
	BerthMaintenance = "maintenance"
)

type Berth struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Number    string    `gorm:"type:varchar(10);unique;not null" json:"number"`
	Status    string    `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
