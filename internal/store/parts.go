package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"gmao-backend/internal/model"
)

// recomputePartsCost re-sums the work order's parts cost from its usage rows.
// Kept as a recompute-on-write aggregate rather than an incremental counter so
// the stored value cannot drift from the rows.
func recomputePartsCost(tx *gorm.DB, workOrderID int64) error {
	var total float64
	err := tx.Model(&model.PartsUsage{}).
		Where("work_order_id = ?", workOrderID).
		Select("COALESCE(SUM(quantite * prix_unitaire_applique), 0)").
		Scan(&total).Error
	if err != nil {
		return fmt.Errorf("failed to sum parts cost for work order %d: %w", workOrderID, err)
	}
	return tx.Model(&model.WorkOrder{}).Where("id = ?", workOrderID).
		Update("parts_cost", total).Error
}

// AttachPart consumes stock for a work order: the usage row with its frozen
// unit price, the sortie movement and the cost recompute commit together or
// not at all.
func (s *gormStore) AttachPart(ctx context.Context, workOrderID, pieceID int64, quantite int) (*model.PartsUsage, error) {
	if quantite <= 0 {
		return nil, &InvalidInputError{Field: "quantite", Reason: "must be a positive integer"}
	}

	var usage *model.PartsUsage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wo model.WorkOrder
		if err := tx.First(&wo, workOrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Kind: "work order", ID: workOrderID}
			}
			return err
		}
		var piece model.Piece
		if err := tx.First(&piece, pieceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Kind: "piece", ID: pieceID}
			}
			return err
		}

		// The ledger re-checks atomically; this gives the caller the precise
		// availability without paying for a failed conditional update.
		if quantite > piece.QuantiteStock {
			return &InsufficientStockError{PieceID: pieceID, Available: piece.QuantiteStock, Requested: quantite}
		}

		usage = &model.PartsUsage{
			PieceID:              pieceID,
			WorkOrderID:          workOrderID,
			Quantite:             quantite,
			PrixUnitaireApplique: piece.PrixUnitaire,
			DateUtilisation:      time.Now().UTC(),
		}
		if err := tx.Create(usage).Error; err != nil {
			return err
		}

		mv, err := adjustStockTx(tx, pieceID, model.MouvementSortie, quantite,
			fmt.Sprintf("WorkOrder #%d", workOrderID))
		if err != nil {
			return err
		}
		usage.Piece = mv.Piece

		return recomputePartsCost(tx, workOrderID)
	})
	if err != nil {
		return nil, err
	}
	return usage, nil
}

// DetachPart undoes a consumption: stock is restored through the ledger, the
// usage row removed and the cost recomputed, all in one transaction. Restores
// are entree movements and never constrained by current stock.
func (s *gormStore) DetachPart(ctx context.Context, usageID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var usage model.PartsUsage
		if err := tx.First(&usage, usageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Kind: "parts usage", ID: usageID}
			}
			return err
		}

		if _, err := adjustStockTx(tx, usage.PieceID, model.MouvementEntree, usage.Quantite,
			fmt.Sprintf("Annulation WorkOrder #%d", usage.WorkOrderID)); err != nil {
			return err
		}
		if err := tx.Delete(&model.PartsUsage{}, usageID).Error; err != nil {
			return err
		}
		return recomputePartsCost(tx, usage.WorkOrderID)
	})
}

// ListPartsUsages returns the consumption history of one work order, newest first.
func (s *gormStore) ListPartsUsages(ctx context.Context, workOrderID int64) ([]model.PartsUsage, error) {
	var usages []model.PartsUsage
	err := s.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Preload("Piece").
		Order("date_utilisation DESC").
		Find(&usages).Error
	if err != nil {
		return nil, err
	}
	return usages, nil
}
