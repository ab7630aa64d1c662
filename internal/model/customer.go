package model

import "time"

// Customer участник зала, ключ идентификатор из платежной системы
type Customer struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(255)"`
	Name           string    `json:"name" gorm:"type:varchar(255)"`
	PhoneNumber    string    `json:"phoneNumber" gorm:"type:varchar(32);index"`
	MembershipType string    `json:"membershipType" gorm:"type:varchar(64)"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
