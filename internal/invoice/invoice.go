// Package invoice builds billing snapshots for completed work orders.
package invoice

import (
	"fmt"
	"time"

	"gmao-backend/internal/model"
	"gmao-backend/internal/workorder"
)

// Line is one billed item.
type Line struct {
	Designation  string  `json:"designation"`
	Quantite     int     `json:"quantite"`
	PrixUnitaire float64 `json:"prixUnitaire"`
	Montant      float64 `json:"montant"`
}

// Invoice is an immutable billing snapshot of one work order. Part lines use
// the frozen usage prices, never the current catalog.
type Invoice struct {
	Numero      string         `json:"numero"`
	WorkOrderID int64          `json:"workOrderId"`
	EmittedAt   time.Time      `json:"emittedAt"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	Client      *model.Client  `json:"client,omitempty"`
	Machine     *model.Machine `json:"machine,omitempty"`
	Lines       []Line         `json:"lines"`
	LaborCost   float64        `json:"laborCost"`
	PartsCost   float64        `json:"partsCost"`
	Total       float64        `json:"total"`
}

// Number formats the invoice number for a work order.
func Number(workOrderID int64) string {
	return fmt.Sprintf("facture_%06d", workOrderID)
}

// Build assembles the invoice for a completed work order. The work order must
// carry its parts usages (with pieces) and machine preloaded.
func Build(wo *model.WorkOrder) (*Invoice, error) {
	if wo.Status != workorder.StatusCompleted {
		return nil, fmt.Errorf("work order %d is %s, only completed work can be invoiced", wo.ID, wo.Status)
	}

	inv := &Invoice{
		Numero:      Number(wo.ID),
		WorkOrderID: wo.ID,
		EmittedAt:   time.Now().UTC(),
		CompletedAt: wo.DateCompleted,
		Machine:     wo.Machine,
		LaborCost:   wo.LaborCost,
		PartsCost:   wo.PartsCost,
		Total:       wo.TotalCost(),
	}
	if wo.Machine != nil {
		inv.Client = wo.Machine.Client
	}

	for _, usage := range wo.PartsUsages {
		designation := fmt.Sprintf("Piece %d", usage.PieceID)
		if usage.Piece != nil {
			designation = usage.Piece.Nom
		}
		inv.Lines = append(inv.Lines, Line{
			Designation:  designation,
			Quantite:     usage.Quantite,
			PrixUnitaire: usage.PrixUnitaireApplique,
			Montant:      usage.LineCost(),
		})
	}

	if wo.LaborCost > 0 {
		inv.Lines = append(inv.Lines, Line{
			Designation:  "Main d'oeuvre",
			Quantite:     1,
			PrixUnitaire: wo.LaborCost,
			Montant:      wo.LaborCost,
		})
	}

	return inv, nil
}
