package model

import "time"

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Pin       int    `gorm:"column:pin;uniqueIndex;not null" json:"pin"`
	Name      string `gorm:"column:name;type:varchar(80)" json:"name"`
	Primary   string `gorm:"column:pri;type:varchar(80)" json:"primary"`
	Password  string `gorm:"column:password;type:varchar(80)" json:"-"`
	Card      string `gorm:"column:card;type:varchar(80)" json:"card"`
	Group     string `gorm:"column:grp;type:varchar(80)" json:"group"`
	Timezone  string `gorm:"column:timezone;type:varchar(80)" json:"timezone"`
	Verify    string `gorm:"column:verify;type:varchar(80)" json:"verify"`
	ViceCard  string `gorm:"column:vice_card;type:varchar(80)" json:"viceCard"`
	MachineID *uint  `gorm:"column:machine_id" json:"machineId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "iclock_users"
}

// UserMutableColumns are overwritten when a USER line arrives for an existing PIN.
var UserMutableColumns = []string{"name", "pri", "password", "card", "grp", "timezone", "verify", "vice_card", "updated_at"}
