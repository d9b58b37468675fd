package model

import "time"

// Machine statut values. The set is project-defined display text and must be
// preserved verbatim.
const (
	MachineEnService     = "En service"
	MachineEnMaintenance = "En maintenance"
	MachineHorsService   = "Hors service"
)

// Machine is a serviced asset belonging to a client. Its statut mirrors the
// aggregate state of its work orders and is only written by the store's
// cascade helpers while a work order is active.
type Machine struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	Reference       string    `gorm:"uniqueIndex;size:255;not null" json:"reference"`
	Modele          string    `gorm:"size:255;not null" json:"modele"`
	Marque          string    `gorm:"size:255;not null" json:"marque"`
	Type            string    `gorm:"size:255;not null" json:"type"`
	DateAcquisition time.Time `gorm:"not null" json:"dateAcquisition"`
	Statut          string    `gorm:"size:50;not null;default:'En service'" json:"statut"`
	ClientID        *int64    `gorm:"index" json:"clientId"`
	Images          []string  `gorm:"serializer:json" json:"images"`
	PrimaryImage    string    `gorm:"size:500" json:"primaryImage,omitempty"`
	QRCodeData      string    `gorm:"uniqueIndex;size:100" json:"qrCodeData,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	// Associations
	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}
