package model

import "time"

// Technicien statut values (display text, preserved verbatim).
const (
	TechnicienDisponible     = "Disponible"
	TechnicienEnIntervention = "En intervention"
	TechnicienAbsent         = "Absent"
)

// Technicien is a worker profile bound 1:1 to a user account. The statut is
// driven by work order transitions; Absent is only ever set through the
// self-service endpoint and may be overwritten by the next transition.
type Technicien struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"uniqueIndex;not null" json:"userId"`
	Specialite  string    `gorm:"size:255;not null" json:"specialite"`
	TauxHoraire float64   `gorm:"not null" json:"tauxHoraire"`
	Statut      string    `gorm:"size:50;not null;default:'Disponible'" json:"statut"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
