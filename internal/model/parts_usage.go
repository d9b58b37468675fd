package model

import "time"

// PartsUsage records parts consumed by a work order. PrixUnitaireApplique is
// frozen at attach time; later catalog price changes must not affect it.
// Creation and deletion are always coupled to the matching stock movement
// inside one transaction.
type PartsUsage struct {
	ID                   int64     `gorm:"primaryKey" json:"id"`
	PieceID              int64     `gorm:"index;not null" json:"pieceId"`
	WorkOrderID          int64     `gorm:"index;not null" json:"workOrderId"`
	Quantite             int       `gorm:"not null" json:"quantite"`
	PrixUnitaireApplique float64   `gorm:"not null" json:"prixUnitaireApplique"`
	DateUtilisation      time.Time `gorm:"not null" json:"dateUtilisation"`

	// Associations
	Piece *Piece `gorm:"foreignKey:PieceID" json:"piece,omitempty"`
}

// LineCost is quantity times the frozen unit price.
func (u *PartsUsage) LineCost() float64 {
	return float64(u.Quantite) * u.PrixUnitaireApplique
}
