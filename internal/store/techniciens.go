package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"gmao-backend/internal/model"
	"gmao-backend/internal/workorder"
)

func validTechnicienStatut(statut string) bool {
	switch statut {
	case model.TechnicienDisponible, model.TechnicienEnIntervention, model.TechnicienAbsent:
		return true
	}
	return false
}

// CreateTechnicien inserts a worker profile bound to an existing user.
func (s *gormStore) CreateTechnicien(ctx context.Context, t *model.Technicien) (*model.Technicien, error) {
	if t.UserID == 0 {
		return nil, &InvalidInputError{Field: "userId", Reason: "required"}
	}
	if strings.TrimSpace(t.Specialite) == "" {
		return nil, &InvalidInputError{Field: "specialite", Reason: "required"}
	}
	if t.Statut == "" {
		t.Statut = model.TechnicienDisponible
	}
	if !validTechnicienStatut(t.Statut) {
		return nil, &InvalidInputError{Field: "statut", Reason: fmt.Sprintf("unknown value %q", t.Statut)}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("id = ?", t.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return &NotFoundError{Kind: "user", ID: t.UserID}
		}
		return tx.Create(t).Error
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *gormStore) GetTechnicien(ctx context.Context, id int64) (*model.Technicien, error) {
	var t model.Technicien
	err := s.db.WithContext(ctx).Preload("User").First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "technicien", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *gormStore) ListTechniciens(ctx context.Context, statut string) ([]model.Technicien, error) {
	q := s.db.WithContext(ctx).Model(&model.Technicien{})
	if statut != "" {
		q = q.Where("statut = ?", statut)
	}
	var techniciens []model.Technicien
	if err := q.Preload("User").Order("id ASC").Find(&techniciens).Error; err != nil {
		return nil, err
	}
	return techniciens, nil
}

// UpdateTechnicien edits the profile fields. The statut goes through
// SetTechnicienStatut so the self-service rules stay in one place.
func (s *gormStore) UpdateTechnicien(ctx context.Context, id int64, in *model.Technicien) (*model.Technicien, error) {
	var t model.Technicien
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Kind: "technicien", ID: id}
			}
			return err
		}
		if in.Specialite != "" {
			t.Specialite = in.Specialite
		}
		if in.TauxHoraire > 0 {
			t.TauxHoraire = in.TauxHoraire
		}
		return tx.Save(&t).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SetTechnicienStatut is the self-service status toggle. It is not gated by
// work order state and the next state machine transition may override it.
func (s *gormStore) SetTechnicienStatut(ctx context.Context, id int64, statut string) (*model.Technicien, error) {
	if !validTechnicienStatut(statut) {
		return nil, &InvalidInputError{Field: "statut", Reason: fmt.Sprintf("unknown value %q", statut)}
	}
	res := s.db.WithContext(ctx).Model(&model.Technicien{}).Where("id = ?", id).Update("statut", statut)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, &NotFoundError{Kind: "technicien", ID: id}
	}
	return s.GetTechnicien(ctx, id)
}

// DeleteTechnicien removes a profile unless active work orders still hold it.
func (s *gormStore) DeleteTechnicien(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&model.WorkOrder{}).
			Where("technicien_id = ? AND status IN ?", id, workorder.ActiveStatuses).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return &ConflictError{Reason: "technicien has active work orders"}
		}
		res := tx.Delete(&model.Technicien{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Kind: "technicien", ID: id}
		}
		return nil
	})
}
