package model

import "time"

type Fingerprint struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Pin       int    `gorm:"column:pin;uniqueIndex:idx_fingerprint_pin_fid;not null" json:"pin"`
	Fid       int    `gorm:"column:fid;uniqueIndex:idx_fingerprint_pin_fid;not null" json:"fid"`
	Size      int    `gorm:"column:size" json:"size"`
	Valid     string `gorm:"column:valid;type:varchar(10)" json:"valid"`
	Template  string `gorm:"column:template;type:text" json:"template"`
	MachineID *uint  `gorm:"column:machine_id" json:"machineId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Fingerprint) TableName() string {
	return "iclock_fingerprints"
}

var FingerprintMutableColumns = []string{"size", "valid", "template", "updated_at"}
