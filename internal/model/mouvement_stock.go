package model

import "time"

// Stock movement directions.
const (
	MouvementEntree = "entree"
	MouvementSortie = "sortie"
)

// MouvementStock is an append-only audit record of one stock change. The
// before/after quantities are captured at write time so the record stays
// self-contained regardless of later movements. Rows are never updated or
// deleted.
type MouvementStock struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	PieceID       int64     `gorm:"index;not null" json:"pieceId"`
	Type          string    `gorm:"size:20;not null" json:"type"`
	Quantite      int       `gorm:"not null" json:"quantite"`
	QuantiteAvant int       `gorm:"not null" json:"quantiteAvant"`
	QuantiteApres int       `gorm:"not null" json:"quantiteApres"`
	Motif         string    `gorm:"size:255" json:"motif,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`

	// Associations
	Piece *Piece `gorm:"foreignKey:PieceID" json:"piece,omitempty"`
}
