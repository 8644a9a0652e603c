package model

import "time"

type Webhook struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	URL      string `gorm:"column:url;type:varchar(255);not null" json:"url"`
	IsActive bool   `gorm:"column:is_active;not null" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Webhook) TableName() string {
	return "iclock_webhooks"
}
