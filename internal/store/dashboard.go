package store

import (
	"context"
	"time"

	"gmao-backend/internal/model"
	"gmao-backend/internal/workorder"
)

// periodBounds returns the start of the current and previous reporting period.
func periodBounds(now time.Time, period string) (current, previous time.Time) {
	switch period {
	case "year":
		current = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		previous = time.Date(now.Year()-1, 1, 1, 0, 0, 0, 0, now.Location())
	case "quarter":
		current = now.AddDate(0, 0, -90)
		previous = now.AddDate(0, 0, -180)
	default: // month
		current = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		previous = current.AddDate(0, -1, 0)
	}
	return current, previous
}

// Dashboard assembles the aggregate snapshot in one pass per metric.
func (s *gormStore) Dashboard(ctx context.Context, period string) (*DashboardStats, error) {
	stats := &DashboardStats{
		MachinesByStatut:       make(map[string]int64),
		OpenWorkOrdersByStatus: make(map[string]int64),
	}

	type countRow struct {
		Key   string
		Count int64
	}

	var machineRows []countRow
	err := s.db.WithContext(ctx).Model(&model.Machine{}).
		Select("statut AS key, COUNT(id) AS count").
		Group("statut").
		Scan(&machineRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range machineRows {
		stats.MachinesByStatut[row.Key] = row.Count
	}

	err = s.db.WithContext(ctx).Model(&model.Technicien{}).
		Where("statut = ?", model.TechnicienDisponible).
		Count(&stats.AvailableTechniciens).Error
	if err != nil {
		return nil, err
	}

	terminal := []workorder.Status{workorder.StatusCompleted, workorder.StatusCancelled}
	err = s.db.WithContext(ctx).Model(&model.WorkOrder{}).
		Where("priority = ? AND status NOT IN ?", workorder.PriorityCritical, terminal).
		Count(&stats.UrgentWorkOrders).Error
	if err != nil {
		return nil, err
	}

	var openRows []countRow
	err = s.db.WithContext(ctx).Model(&model.WorkOrder{}).
		Select("status AS key, COUNT(id) AS count").
		Where("status NOT IN ?", terminal).
		Group("status").
		Scan(&openRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range openRows {
		stats.OpenWorkOrdersByStatus[row.Key] = row.Count
	}

	now := time.Now().UTC()
	currentStart, previousStart := periodBounds(now, period)

	type periodRow struct {
		Total int64
		Costs float64
	}
	var current, previous periodRow

	err = s.db.WithContext(ctx).Model(&model.WorkOrder{}).
		Select("COUNT(id) AS total, COALESCE(SUM(labor_cost + parts_cost), 0) AS costs").
		Where("date_reported >= ?", currentStart).
		Scan(&current).Error
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(&model.WorkOrder{}).
		Select("COUNT(id) AS total, COALESCE(SUM(labor_cost + parts_cost), 0) AS costs").
		Where("date_reported >= ? AND date_reported < ?", previousStart, currentStart).
		Scan(&previous).Error
	if err != nil {
		return nil, err
	}

	stats.WorkOrdersThisPeriod = current.Total
	stats.CostsThisPeriod = current.Costs
	stats.WorkOrdersLastPeriod = previous.Total
	stats.CostsLastPeriod = previous.Costs
	return stats, nil
}
