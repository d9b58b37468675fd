package model

import "time"

// PushSubscription holds a browser push subscription for inventory alerts.
// Subscribers are notified when a ledger deduction leaves a piece at or below
// its reorder threshold.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey" json:"endpoint"`
	P256DH    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}
