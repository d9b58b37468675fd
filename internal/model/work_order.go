package model

import (
	"time"

	"gmao-backend/internal/workorder"
)

// WorkOrder is the unit of maintenance work, unifying breakdown reports and
// planned interventions. Status changes must go through the store, which
// enforces the transition table and runs the machine/technician cascades.
type WorkOrder struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	MachineID    int64  `gorm:"index;not null" json:"machineId"`
	TechnicienID *int64 `gorm:"index" json:"technicienId"`

	Type     workorder.Type     `gorm:"size:32;not null;default:corrective" json:"type"`
	Origin   workorder.Origin   `gorm:"size:32;not null;default:breakdown" json:"origin"`
	Priority workorder.Priority `gorm:"size:32;not null;default:medium" json:"priority"`
	Severity workorder.Severity `gorm:"size:32" json:"severity,omitempty"`
	Status   workorder.Status   `gorm:"size:32;index;not null;default:reported" json:"status"`

	Description string   `gorm:"type:text;not null" json:"description"`
	Resolution  string   `gorm:"type:text" json:"resolution,omitempty"`
	Images      []string `gorm:"serializer:json" json:"images"`

	DateReported  time.Time  `gorm:"not null" json:"dateReported"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
	DateStarted   *time.Time `json:"dateStarted,omitempty"`
	DateCompleted *time.Time `json:"dateCompleted,omitempty"`

	// Durations in minutes, costs in currency units.
	EstimatedDuration *int    `json:"estimatedDuration,omitempty"`
	ActualDuration    *int    `json:"actualDuration,omitempty"`
	LaborCost         float64 `gorm:"not null;default:0" json:"laborCost"`
	PartsCost         float64 `gorm:"not null;default:0" json:"partsCost"`

	// Mobile confirmation metadata.
	SignatureClient   string     `gorm:"type:text" json:"signatureClient,omitempty"`
	SignatureClientAt *time.Time `json:"signatureClientAt,omitempty"`
	ConfirmedByTech   bool       `gorm:"not null;default:false" json:"confirmedByTech"`
	ConfirmedByTechAt *time.Time `json:"confirmedByTechAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Associations
	Machine     *Machine     `gorm:"foreignKey:MachineID" json:"machine,omitempty"`
	Technicien  *Technicien  `gorm:"foreignKey:TechnicienID" json:"technicien,omitempty"`
	PartsUsages []PartsUsage `gorm:"foreignKey:WorkOrderID" json:"partsUsages,omitempty"`
}

// TotalCost is labor plus parts.
func (w *WorkOrder) TotalCost() float64 {
	return w.LaborCost + w.PartsCost
}
