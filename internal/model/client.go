package model

import "time"

// Client owns one or more machines.
type Client struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Nom       string    `gorm:"size:255;not null" json:"nom"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Telephone string    `gorm:"size:50" json:"telephone,omitempty"`
	Adresse   string    `gorm:"size:500" json:"adresse,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Associations
	Machines []Machine `gorm:"foreignKey:ClientID" json:"machines,omitempty"`
}
