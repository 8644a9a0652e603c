package model

import (
	"fmt"
	"time"
)

type Machine struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	SerialNumber string     `gorm:"column:serial_number;type:varchar(80);uniqueIndex;not null" json:"serialNumber"`
	Name         string     `gorm:"column:name;type:varchar(120)" json:"name"`
	LastSeen     *time.Time `gorm:"column:last_seen" json:"lastSeen"`
	Timezone     int        `gorm:"column:timezone;not null" json:"timezone"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Machine) TableName() string {
	return "iclock_machines"
}

// DefaultMachineName is the display name given to a newly registered terminal.
func DefaultMachineName(serialNumber string) string {
	return fmt.Sprintf("Machine %s", serialNumber)
}
