package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gmao-backend/internal/model"
	"gmao-backend/internal/workorder"
)

// CreateMachine inserts an asset and mints its QR pairing code.
func (s *gormStore) CreateMachine(ctx context.Context, m *model.Machine) (*model.Machine, error) {
	if strings.TrimSpace(m.Reference) == "" {
		return nil, &InvalidInputError{Field: "reference", Reason: "required"}
	}
	if strings.TrimSpace(m.Modele) == "" {
		return nil, &InvalidInputError{Field: "modele", Reason: "required"}
	}
	if m.Statut == "" {
		m.Statut = model.MachineEnService
	}
	if m.QRCodeData == "" {
		m.QRCodeData = uuid.NewString()
	}
	if m.Images == nil {
		m.Images = []string{}
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (s *gormStore) GetMachine(ctx context.Context, id int64) (*model.Machine, error) {
	var m model.Machine
	err := s.db.WithContext(ctx).Preload("Client").First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "machine", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *gormStore) GetMachineByQRCode(ctx context.Context, code string) (*model.Machine, error) {
	var m model.Machine
	err := s.db.WithContext(ctx).Preload("Client").Where("qr_code_data = ?", code).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "machine", ID: 0}
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *gormStore) ListMachines(ctx context.Context, statut string, page, limit int) ([]model.Machine, int64, error) {
	_, limit, offset := normalizePage(page, limit, 20)

	q := s.db.WithContext(ctx).Model(&model.Machine{})
	if statut != "" {
		q = q.Where("statut = ?", statut)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var machines []model.Machine
	err := q.Preload("Client").Order("reference ASC").Offset(offset).Limit(limit).Find(&machines).Error
	if err != nil {
		return nil, 0, err
	}
	return machines, total, nil
}

// UpdateMachine edits asset metadata. The statut is refused while a work
// order is active on the machine; the state machine owns it then.
func (s *gormStore) UpdateMachine(ctx context.Context, id int64, in *model.Machine) (*model.Machine, error) {
	var m model.Machine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Kind: "machine", ID: id}
			}
			return err
		}
		if in.Statut != "" && in.Statut != m.Statut {
			var active int64
			if err := tx.Model(&model.WorkOrder{}).
				Where("machine_id = ? AND status IN ?", id, workorder.ActiveStatuses).
				Count(&active).Error; err != nil {
				return err
			}
			if active > 0 {
				return &ConflictError{Reason: "machine statut is managed by its active work orders"}
			}
			m.Statut = in.Statut
		}
		if in.Reference != "" {
			m.Reference = in.Reference
		}
		if in.Modele != "" {
			m.Modele = in.Modele
		}
		if in.Marque != "" {
			m.Marque = in.Marque
		}
		if in.Type != "" {
			m.Type = in.Type
		}
		if !in.DateAcquisition.IsZero() {
			m.DateAcquisition = in.DateAcquisition
		}
		if in.ClientID != nil {
			m.ClientID = in.ClientID
		}
		if in.PrimaryImage != "" {
			m.PrimaryImage = in.PrimaryImage
		}
		return tx.Save(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMachine removes an asset unless work orders reference it.
func (s *gormStore) DeleteMachine(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&model.WorkOrder{}).Where("machine_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return &ConflictError{Reason: "machine is referenced by work orders"}
		}
		res := tx.Delete(&model.Machine{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Kind: "machine", ID: id}
		}
		return nil
	})
}
