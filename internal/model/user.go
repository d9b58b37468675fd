package model

import "time"

// User is an authenticated account. Roles hold the closed role names from the
// auth package; they are validated at the boundary before being persisted.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Nom          string    `gorm:"size:255;not null" json:"nom"`
	Prenom       string    `gorm:"size:255;not null" json:"prenom"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Roles        []string  `gorm:"serializer:json" json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
