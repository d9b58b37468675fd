package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"gmao-backend/internal/model"
)

// adjustStockTx is the single write path for a piece's on-hand quantity. The
// deduction is a conditional update so two concurrent sorties can never both
// get past the available quantity; the movement row is written in the same
// transaction, so no stock change exists without its audit record.
func adjustStockTx(tx *gorm.DB, pieceID int64, direction string, quantite int, motif string) (*model.MouvementStock, error) {
	if quantite <= 0 {
		return nil, &InvalidInputError{Field: "quantite", Reason: "must be a positive integer"}
	}
	if direction != model.MouvementEntree && direction != model.MouvementSortie {
		return nil, &InvalidInputError{Field: "type", Reason: `must be "entree" or "sortie"`}
	}

	q := tx.Model(&model.Piece{}).Where("id = ?", pieceID)
	var expr any
	if direction == model.MouvementSortie {
		q = q.Where("quantite_stock >= ?", quantite)
		expr = gorm.Expr("quantite_stock - ?", quantite)
	} else {
		expr = gorm.Expr("quantite_stock + ?", quantite)
	}

	res := q.Update("quantite_stock", expr)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update stock for piece %d: %w", pieceID, res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the piece is gone or the guard rejected the deduction.
		var piece model.Piece
		if err := tx.First(&piece, pieceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Kind: "piece", ID: pieceID}
			}
			return nil, err
		}
		return nil, &InsufficientStockError{PieceID: pieceID, Available: piece.QuantiteStock, Requested: quantite}
	}

	// The row lock taken by the update holds until commit, so the re-read is
	// a consistent after-snapshot.
	var piece model.Piece
	if err := tx.First(&piece, pieceID).Error; err != nil {
		return nil, fmt.Errorf("failed to re-read piece %d: %w", pieceID, err)
	}

	avant := piece.QuantiteStock
	if direction == model.MouvementSortie {
		avant += quantite
	} else {
		avant -= quantite
	}

	mv := &model.MouvementStock{
		PieceID:       pieceID,
		Type:          direction,
		Quantite:      quantite,
		QuantiteAvant: avant,
		QuantiteApres: piece.QuantiteStock,
		Motif:         motif,
		CreatedAt:     time.Now().UTC(),
	}
	if err := tx.Create(mv).Error; err != nil {
		return nil, fmt.Errorf("failed to record stock movement for piece %d: %w", pieceID, err)
	}
	mv.Piece = &piece
	return mv, nil
}

// AdjustStock applies one manual ledger operation.
func (s *gormStore) AdjustStock(ctx context.Context, pieceID int64, direction string, quantite int, motif string) (*model.MouvementStock, error) {
	var mv *model.MouvementStock
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		mv, err = adjustStockTx(tx, pieceID, direction, quantite, motif)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mv, nil
}

// CreatePiece inserts a catalog item; a non-zero opening stock is seeded
// through the ledger so the movement log starts complete.
func (s *gormStore) CreatePiece(ctx context.Context, p *model.Piece) (*model.Piece, error) {
	if strings.TrimSpace(p.Reference) == "" {
		return nil, &InvalidInputError{Field: "reference", Reason: "required"}
	}
	if strings.TrimSpace(p.Nom) == "" {
		return nil, &InvalidInputError{Field: "nom", Reason: "required"}
	}
	if p.QuantiteStock < 0 {
		return nil, &InvalidInputError{Field: "quantiteStock", Reason: "must not be negative"}
	}
	if p.SeuilAlerte == 0 {
		p.SeuilAlerte = 5
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		if p.QuantiteStock > 0 {
			mv := &model.MouvementStock{
				PieceID:       p.ID,
				Type:          model.MouvementEntree,
				Quantite:      p.QuantiteStock,
				QuantiteAvant: 0,
				QuantiteApres: p.QuantiteStock,
				Motif:         "Stock initial",
				CreatedAt:     time.Now().UTC(),
			}
			return tx.Create(mv).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPiece loads one piece with its supplier.
func (s *gormStore) GetPiece(ctx context.Context, id int64) (*model.Piece, error) {
	var piece model.Piece
	err := s.db.WithContext(ctx).Preload("Fournisseur").First(&piece, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "piece", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &piece, nil
}

// ListPieces returns a filtered page ordered by creation date, newest first.
func (s *gormStore) ListPieces(ctx context.Context, f PieceFilter) ([]model.Piece, int64, error) {
	_, limit, offset := normalizePage(f.Page, f.Limit, 10)

	q := s.db.WithContext(ctx).Model(&model.Piece{})
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("lower(reference) LIKE ? OR lower(nom) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pieces []model.Piece
	err := q.Preload("Fournisseur").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&pieces).Error
	if err != nil {
		return nil, 0, err
	}
	return pieces, total, nil
}

// UpdatePiece edits catalog fields. The stock quantity is deliberately not
// writable here; all stock changes go through AdjustStock.
func (s *gormStore) UpdatePiece(ctx context.Context, id int64, in *model.Piece) (*model.Piece, error) {
	var piece model.Piece
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&piece, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Kind: "piece", ID: id}
			}
			return err
		}
		if in.Reference != "" {
			piece.Reference = in.Reference
		}
		if in.Nom != "" {
			piece.Nom = in.Nom
		}
		if in.Description != "" {
			piece.Description = in.Description
		}
		if in.PrixUnitaire > 0 {
			piece.PrixUnitaire = in.PrixUnitaire
		}
		if in.SeuilAlerte > 0 {
			piece.SeuilAlerte = in.SeuilAlerte
		}
		if in.Emplacement != "" {
			piece.Emplacement = in.Emplacement
		}
		if in.FournisseurID != nil {
			piece.FournisseurID = in.FournisseurID
		}
		return tx.Save(&piece).Error
	})
	if err != nil {
		return nil, err
	}
	return &piece, nil
}

// DeletePiece removes a catalog item that was never used. Pieces with ledger
// history or work order usage stay, so the audit trail remains intact.
func (s *gormStore) DeletePiece(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var usages int64
		if err := tx.Model(&model.PartsUsage{}).Where("piece_id = ?", id).Count(&usages).Error; err != nil {
			return err
		}
		if usages > 0 {
			return &ConflictError{Reason: "piece is referenced by work order parts usage"}
		}
		var movements int64
		if err := tx.Model(&model.MouvementStock{}).Where("piece_id = ?", id).Count(&movements).Error; err != nil {
			return err
		}
		if movements > 0 {
			return &ConflictError{Reason: "piece has stock movement history"}
		}
		res := tx.Delete(&model.Piece{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Kind: "piece", ID: id}
		}
		return nil
	})
}

// LowStockPieces returns all pieces at or below their reorder threshold.
func (s *gormStore) LowStockPieces(ctx context.Context) ([]model.Piece, error) {
	var pieces []model.Piece
	err := s.db.WithContext(ctx).
		Where("quantite_stock <= seuil_alerte").
		Preload("Fournisseur").
		Find(&pieces).Error
	if err != nil {
		return nil, err
	}
	return pieces, nil
}

// ListMouvements returns a filtered page of the ledger, newest first.
func (s *gormStore) ListMouvements(ctx context.Context, f MouvementFilter) ([]model.MouvementStock, int64, error) {
	_, limit, offset := normalizePage(f.Page, f.Limit, 20)

	q := s.db.WithContext(ctx).Model(&model.MouvementStock{})
	if f.PieceID != 0 {
		q = q.Where("piece_id = ?", f.PieceID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.DateFrom != nil {
		q = q.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("created_at <= ?", *f.DateTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movements []model.MouvementStock
	err := q.Preload("Piece").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&movements).Error
	if err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// SummarizeMouvements aggregates entree and sortie totals over a period.
func (s *gormStore) SummarizeMouvements(ctx context.Context, from, to *time.Time) (*MouvementSummary, error) {
	summary := &MouvementSummary{}

	type aggRow struct {
		Type          string
		TotalQuantite int
		TotalCount    int64
	}
	var rows []aggRow

	q := s.db.WithContext(ctx).Model(&model.MouvementStock{}).
		Select("type, COALESCE(SUM(quantite), 0) AS total_quantite, COUNT(id) AS total_count").
		Group("type")
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		switch row.Type {
		case model.MouvementEntree:
			summary.Entrees = MouvementTotals{TotalQuantite: row.TotalQuantite, TotalCount: row.TotalCount}
		case model.MouvementSortie:
			summary.Sorties = MouvementTotals{TotalQuantite: row.TotalQuantite, TotalCount: row.TotalCount}
		}
	}
	return summary, nil
}
