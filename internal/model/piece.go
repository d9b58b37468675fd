package model

import "time"

// Piece is a spare part held in inventory. QuantiteStock is mutated only by
// the store's ledger operation; every change leaves a MouvementStock behind.
type Piece struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	Reference     string    `gorm:"uniqueIndex;size:100;not null" json:"reference"`
	Nom           string    `gorm:"size:255;not null" json:"nom"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	PrixUnitaire  float64   `gorm:"not null" json:"prixUnitaire"`
	QuantiteStock int       `gorm:"not null;default:0" json:"quantiteStock"`
	SeuilAlerte   int       `gorm:"not null;default:5" json:"seuilAlerte"`
	Emplacement   string    `gorm:"size:100" json:"emplacement,omitempty"`
	FournisseurID *int64    `gorm:"index" json:"fournisseurId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Associations
	Fournisseur *Fournisseur `gorm:"foreignKey:FournisseurID" json:"fournisseur,omitempty"`
}

// IsLowStock reports whether the on-hand quantity has fallen to or below the
// reorder threshold.
func (p *Piece) IsLowStock() bool {
	return p.QuantiteStock <= p.SeuilAlerte
}
