package model

import "time"

// Attendance is append-only. Date is stored in the canonical timezone.
type Attendance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Pin       int       `gorm:"column:pin;index;not null" json:"pin"`
	Date      time.Time `gorm:"column:date;index;not null" json:"date"`
	Status    string    `gorm:"column:status;type:varchar(10)" json:"status"`
	Verify    string    `gorm:"column:verify;type:varchar(10)" json:"verify"`
	WorkCode  string    `gorm:"column:work_code;type:varchar(20)" json:"workCode"`
	Reserved1 string    `gorm:"column:reserved_1;type:varchar(20)" json:"reserved1"`
	Reserved2 string    `gorm:"column:reserved_2;type:varchar(20)" json:"reserved2"`
	MachineID *uint     `gorm:"column:machine_id;index" json:"machineId"`

	CreatedAt time.Time `gorm:"<-:create" json:"createdAt"`
}

func (Attendance) TableName() string {
	return "iclock_attendances"
}

// AttendanceHistory is an attendance row joined with its machine.
type AttendanceHistory struct {
	Pin           int
	Date          time.Time
	Status        string
	Verify        string
	SerialNumber  string
	MachineName   string
	MachineOffset int
}
