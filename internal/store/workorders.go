package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"gmao-backend/internal/model"
	"gmao-backend/internal/workorder"
)

// CreateWorkOrder validates the input, verifies the machine and inserts a new
// work order in the reported state.
func (s *gormStore) CreateWorkOrder(ctx context.Context, in CreateWorkOrderInput) (*model.WorkOrder, error) {
	if in.MachineID == 0 {
		return nil, &InvalidInputError{Field: "machineId", Reason: "required"}
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, &InvalidInputError{Field: "description", Reason: "required"}
	}
	if in.Type == "" {
		in.Type = workorder.TypeCorrective
	}
	if in.Origin == "" {
		in.Origin = workorder.OriginBreakdown
	}
	if in.Priority == "" {
		in.Priority = workorder.PriorityMedium
	}
	if !workorder.ValidType(in.Type) {
		return nil, &InvalidInputError{Field: "type", Reason: fmt.Sprintf("unknown value %q", in.Type)}
	}
	if !workorder.ValidOrigin(in.Origin) {
		return nil, &InvalidInputError{Field: "origin", Reason: fmt.Sprintf("unknown value %q", in.Origin)}
	}
	if !workorder.ValidPriority(in.Priority) {
		return nil, &InvalidInputError{Field: "priority", Reason: fmt.Sprintf("unknown value %q", in.Priority)}
	}
	if in.Severity != "" && !workorder.ValidSeverity(in.Severity) {
		return nil, &InvalidInputError{Field: "severity", Reason: fmt.Sprintf("unknown value %q", in.Severity)}
	}

	wo := &model.WorkOrder{
		MachineID:         in.MachineID,
		Type:              in.Type,
		Origin:            in.Origin,
		Priority:          in.Priority,
		Severity:          in.Severity,
		Status:            workorder.StatusReported,
		Description:       in.Description,
		Images:            []string{},
		DateReported:      time.Now().UTC(),
		ScheduledDate:     in.ScheduledDate,
		EstimatedDuration: in.EstimatedDuration,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Machine{}).Where("id = ?", in.MachineID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to verify machine: %w", err)
		}
		if count == 0 {
			return &NotFoundError{Kind: "machine", ID: in.MachineID}
		}
		return tx.Create(wo).Error
	})
	if err != nil {
		return nil, err
	}
	return wo, nil
}

// GetWorkOrder loads one work order with its machine, technician and parts usage history.
func (s *gormStore) GetWorkOrder(ctx context.Context, id int64) (*model.WorkOrder, error) {
	var wo model.WorkOrder
	err := s.db.WithContext(ctx).
		Preload("Machine").
		Preload("Machine.Client").
		Preload("Technicien").
		Preload("Technicien.User").
		Preload("PartsUsages").
		Preload("PartsUsages.Piece").
		First(&wo, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "work order", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

// ListWorkOrders returns a filtered page ordered by report date, newest first.
func (s *gormStore) ListWorkOrders(ctx context.Context, f WorkOrderFilter) ([]model.WorkOrder, int64, error) {
	_, limit, offset := normalizePage(f.Page, f.Limit, 50)

	q := s.db.WithContext(ctx).Model(&model.WorkOrder{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.MachineID != 0 {
		q = q.Where("machine_id = ?", f.MachineID)
	}
	if f.TechnicienID != 0 {
		q = q.Where("technicien_id = ?", f.TechnicienID)
	}
	if f.Search != "" {
		q = q.Where("lower(description) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.WorkOrder
	err := q.Preload("Machine").Preload("Machine.Client").
		Preload("Technicien").Preload("Technicien.User").
		Order("date_reported DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateWorkOrder edits the freely mutable fields; status, costs and dates are
// only reachable through the dedicated operations.
func (s *gormStore) UpdateWorkOrder(ctx context.Context, id int64, in UpdateWorkOrderInput) (*model.WorkOrder, error) {
	if in.Priority != nil && !workorder.ValidPriority(*in.Priority) {
		return nil, &InvalidInputError{Field: "priority", Reason: fmt.Sprintf("unknown value %q", *in.Priority)}
	}
	if in.Severity != nil && *in.Severity != "" && !workorder.ValidSeverity(*in.Severity) {
		return nil, &InvalidInputError{Field: "severity", Reason: fmt.Sprintf("unknown value %q", *in.Severity)}
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		return nil, &InvalidInputError{Field: "description", Reason: "must not be empty"}
	}

	var wo model.WorkOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&wo, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Kind: "work order", ID: id}
			}
			return err
		}
		if in.Priority != nil {
			wo.Priority = *in.Priority
		}
		if in.Severity != nil {
			wo.Severity = *in.Severity
		}
		if in.Description != nil {
			wo.Description = *in.Description
		}
		if in.ScheduledDate != nil {
			wo.ScheduledDate = in.ScheduledDate
		}
		if in.EstimatedDuration != nil {
			wo.EstimatedDuration = in.EstimatedDuration
		}
		return tx.Save(&wo).Error
	})
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

// AssignTechnician binds a technician to a work order. When the reported ->
// assigned edge is legal the status advances; re-assignment on an already
// active order only swaps the technician. Terminal orders reject assignment.
func (s *gormStore) AssignTechnician(ctx context.Context, workOrderID, technicienID int64) (*model.WorkOrder, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wo model.WorkOrder
		if err := tx.First(&wo, workOrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Kind: "work order", ID: workOrderID}
			}
			return err
		}
		if workorder.IsTerminal(wo.Status) {
			return &InvalidTransitionError{
				From:    wo.Status,
				To:      workorder.StatusAssigned,
				Allowed: workorder.Allowed(wo.Status),
			}
		}

		var count int64
		if err := tx.Model(&model.Technicien{}).Where("id = ?", technicienID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to verify technician: %w", err)
		}
		if count == 0 {
			return &NotFoundError{Kind: "technicien", ID: technicienID}
		}

		prev := wo.TechnicienID
		wo.TechnicienID = &technicienID
		if workorder.CanTransition(wo.Status, workorder.StatusAssigned) {
			wo.Status = workorder.StatusAssigned
		}
		if err := tx.Save(&wo).Error; err != nil {
			return err
		}

		// Holding an assignment makes the technician busy; a swapped-out
		// technician is freed unless other active orders still hold them.
		if err := markTechnicienBusy(tx, wo.TechnicienID); err != nil {
			return err
		}
		if prev != nil && *prev != technicienID {
			if err := releaseTechnicienIfFree(tx, prev, wo.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetWorkOrder(ctx, workOrderID)
}

// TransitionWorkOrder advances a work order along the state machine. The
// status write, the timestamp stamping and the machine/technician cascades
// happen inside one transaction; an illegal edge mutates nothing.
func (s *gormStore) TransitionWorkOrder(ctx context.Context, id int64, to workorder.Status, extra TransitionExtra) (*model.WorkOrder, error) {
	if !workorder.Valid(to) {
		return nil, &InvalidInputError{Field: "status", Reason: fmt.Sprintf("unknown value %q", to)}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wo model.WorkOrder
		if err := tx.First(&wo, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Kind: "work order", ID: id}
			}
			return err
		}
		if !workorder.CanTransition(wo.Status, to) {
			return &InvalidTransitionError{From: wo.Status, To: to, Allowed: workorder.Allowed(wo.Status)}
		}

		now := time.Now().UTC()
		wo.Status = to

		switch to {
		case workorder.StatusInProgress:
			// Re-entering from pending_parts must not re-stamp.
			if wo.DateStarted == nil {
				wo.DateStarted = &now
			}
		case workorder.StatusCompleted:
			wo.DateCompleted = &now
			if extra.Resolution != "" {
				wo.Resolution = extra.Resolution
			}
			if extra.LaborCost != nil {
				wo.LaborCost = *extra.LaborCost
			}
			if extra.PartsCost != nil {
				wo.PartsCost = *extra.PartsCost
			}
			if wo.DateStarted != nil {
				minutes := int(math.Round(now.Sub(*wo.DateStarted).Minutes()))
				wo.ActualDuration = &minutes
			}
		}

		if err := tx.Save(&wo).Error; err != nil {
			return err
		}

		switch to {
		case workorder.StatusInProgress:
			if err := applyActiveWorkEffect(tx, wo.MachineID); err != nil {
				return err
			}
			if err := markTechnicienBusy(tx, wo.TechnicienID); err != nil {
				return err
			}
		case workorder.StatusCompleted, workorder.StatusCancelled:
			if err := releaseMachineIfIdle(tx, wo.MachineID, wo.ID); err != nil {
				return err
			}
			if err := releaseTechnicienIfFree(tx, wo.TechnicienID, wo.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetWorkOrder(ctx, id)
}

// applyActiveWorkEffect marks the machine as under maintenance. A missing
// machine is logged, not fatal: the work order's own state stays authoritative.
func applyActiveWorkEffect(tx *gorm.DB, machineID int64) error {
	res := tx.Model(&model.Machine{}).Where("id = ?", machineID).
		Update("statut", model.MachineEnMaintenance)
	if res.Error != nil {
		return fmt.Errorf("failed to set machine %d under maintenance: %w", machineID, res.Error)
	}
	if res.RowsAffected == 0 {
		log.Printf("cascade: machine %d not found while entering active work", machineID)
	}
	return nil
}

// releaseMachineIfIdle restores the machine to service when no other work
// order remains active on it. The check is a live query, not a counter, so
// out-of-band edits cannot leave the statut stranded.
func releaseMachineIfIdle(tx *gorm.DB, machineID, excludeWorkOrderID int64) error {
	var active int64
	err := tx.Model(&model.WorkOrder{}).
		Where("machine_id = ? AND id <> ? AND status IN ?", machineID, excludeWorkOrderID, workorder.ActiveStatuses).
		Count(&active).Error
	if err != nil {
		return fmt.Errorf("failed to count active work orders for machine %d: %w", machineID, err)
	}
	if active > 0 {
		return nil
	}
	res := tx.Model(&model.Machine{}).Where("id = ?", machineID).
		Update("statut", model.MachineEnService)
	if res.Error != nil {
		return fmt.Errorf("failed to restore machine %d to service: %w", machineID, res.Error)
	}
	if res.RowsAffected == 0 {
		log.Printf("cascade: machine %d not found while releasing", machineID)
	}
	return nil
}

// markTechnicienBusy flags the assigned technician as on intervention.
func markTechnicienBusy(tx *gorm.DB, technicienID *int64) error {
	if technicienID == nil {
		return nil
	}
	res := tx.Model(&model.Technicien{}).Where("id = ?", *technicienID).
		Update("statut", model.TechnicienEnIntervention)
	if res.Error != nil {
		return fmt.Errorf("failed to mark technicien %d busy: %w", *technicienID, res.Error)
	}
	if res.RowsAffected == 0 {
		log.Printf("cascade: technicien %d not found while entering active work", *technicienID)
	}
	return nil
}

// releaseTechnicienIfFree frees the technician unless another work order still
// holds them. Clearing one assignment must not override an unrelated one.
func releaseTechnicienIfFree(tx *gorm.DB, technicienID *int64, excludeWorkOrderID int64) error {
	if technicienID == nil {
		return nil
	}
	var active int64
	err := tx.Model(&model.WorkOrder{}).
		Where("technicien_id = ? AND id <> ? AND status IN ?", *technicienID, excludeWorkOrderID, workorder.ActiveStatuses).
		Count(&active).Error
	if err != nil {
		return fmt.Errorf("failed to count active work orders for technicien %d: %w", *technicienID, err)
	}
	if active > 0 {
		return nil
	}
	res := tx.Model(&model.Technicien{}).Where("id = ?", *technicienID).
		Update("statut", model.TechnicienDisponible)
	if res.Error != nil {
		return fmt.Errorf("failed to release technicien %d: %w", *technicienID, res.Error)
	}
	if res.RowsAffected == 0 {
		log.Printf("cascade: technicien %d not found while releasing", *technicienID)
	}
	return nil
}

// AttachSignature stores the client signature blob with its timestamp. It is
// independent of the work order status.
func (s *gormStore) AttachSignature(ctx context.Context, id int64, signature string) error {
	if strings.TrimSpace(signature) == "" {
		return &InvalidInputError{Field: "signature", Reason: "required"}
	}
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&model.WorkOrder{}).Where("id = ?", id).
		Updates(map[string]any{"signature_client": signature, "signature_client_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: "work order", ID: id}
	}
	return nil
}

// ConfirmByTech records the technician's confirmation of the work order.
func (s *gormStore) ConfirmByTech(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&model.WorkOrder{}).Where("id = ?", id).
		Updates(map[string]any{"confirmed_by_tech": true, "confirmed_by_tech_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: "work order", ID: id}
	}
	return nil
}

// AddWorkOrderImages appends stored image URLs to the work order.
func (s *gormStore) AddWorkOrderImages(ctx context.Context, id int64, urls []string) (*model.WorkOrder, error) {
	if len(urls) == 0 {
		return nil, &InvalidInputError{Field: "images", Reason: "no images provided"}
	}
	var wo model.WorkOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&wo, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Kind: "work order", ID: id}
			}
			return err
		}
		wo.Images = append(wo.Images, urls...)
		return tx.Save(&wo).Error
	})
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

// RemoveWorkOrderImage drops one URL from the work order's image list.
func (s *gormStore) RemoveWorkOrderImage(ctx context.Context, id int64, url string) (*model.WorkOrder, error) {
	if url == "" {
		return nil, &InvalidInputError{Field: "imageUrl", Reason: "required"}
	}
	var wo model.WorkOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&wo, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Kind: "work order", ID: id}
			}
			return err
		}
		kept := make([]string, 0, len(wo.Images))
		for _, img := range wo.Images {
			if img != url {
				kept = append(kept, img)
			}
		}
		wo.Images = kept
		return tx.Save(&wo).Error
	})
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

// DeleteWorkOrder is the administrative hard delete. The parts usage rows go
// with it; the stock movement log is audit material and stays.
func (s *gormStore) DeleteWorkOrder(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.WorkOrder{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Kind: "work order", ID: id}
		}
		return tx.Where("work_order_id = ?", id).Delete(&model.PartsUsage{}).Error
	})
}

// ListOverdueScheduled returns preventive work orders whose scheduled date has
// passed while still sitting in the reported state.
func (s *gormStore) ListOverdueScheduled(ctx context.Context, now time.Time) ([]model.WorkOrder, error) {
	var orders []model.WorkOrder
	err := s.db.WithContext(ctx).
		Where("type = ? AND status = ? AND scheduled_date IS NOT NULL AND scheduled_date <= ?",
			workorder.TypePreventive, workorder.StatusReported, now).
		Order("scheduled_date ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
