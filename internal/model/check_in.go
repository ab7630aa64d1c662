package model

import "time"

// CheckIn: снимок участника на момент прохода. С Customer не синхронизируется.
type CheckIn struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	CustomerID     string    `json:"customerId" gorm:"type:varchar(255);index;not null"`
	CustomerName   string    `json:"customerName" gorm:"type:varchar(255)"`
	PhoneNumber    string    `json:"phoneNumber" gorm:"type:varchar(32)"`
	MembershipType string    `json:"membershipType" gorm:"type:varchar(64)"`
	LocationID     string    `json:"locationId" gorm:"type:varchar(255)"`
	CheckInTime    time.Time `json:"checkInTime" gorm:"not null;index"`
	SheetIsSynced  bool      `json:"-" gorm:"default:false;index"`
}
