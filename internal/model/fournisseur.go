package model

import "time"

// Fournisseur is a spare-part supplier.
type Fournisseur struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Nom       string    `gorm:"size:255;not null" json:"nom"`
	Email     string    `gorm:"size:255" json:"email,omitempty"`
	Telephone string    `gorm:"size:50" json:"telephone,omitempty"`
	Adresse   string    `gorm:"size:500" json:"adresse,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Associations
	Pieces []Piece `gorm:"foreignKey:FournisseurID" json:"pieces,omitempty"`
}
