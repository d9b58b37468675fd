package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"gmao-backend/internal/model"
)

// Clients and suppliers are plain directory records; the only rule is that a
// referenced record cannot be removed.

func (s *gormStore) CreateClient(ctx context.Context, c *model.Client) (*model.Client, error) {
	if strings.TrimSpace(c.Nom) == "" {
		return nil, &InvalidInputError{Field: "nom", Reason: "required"}
	}
	if strings.TrimSpace(c.Email) == "" {
		return nil, &InvalidInputError{Field: "email", Reason: "required"}
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (s *gormStore) GetClient(ctx context.Context, id int64) (*model.Client, error) {
	var c model.Client
	err := s.db.WithContext(ctx).Preload("Machines").First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "client", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *gormStore) ListClients(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	if err := s.db.WithContext(ctx).Order("nom ASC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *gormStore) UpdateClient(ctx context.Context, id int64, in *model.Client) (*model.Client, error) {
	var c model.Client
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Kind: "client", ID: id}
			}
			return err
		}
		if in.Nom != "" {
			c.Nom = in.Nom
		}
		if in.Email != "" {
			c.Email = in.Email
		}
		if in.Telephone != "" {
			c.Telephone = in.Telephone
		}
		if in.Adresse != "" {
			c.Adresse = in.Adresse
		}
		return tx.Save(&c).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *gormStore) DeleteClient(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var machines int64
		if err := tx.Model(&model.Machine{}).Where("client_id = ?", id).Count(&machines).Error; err != nil {
			return err
		}
		if machines > 0 {
			return &ConflictError{Reason: "client still owns machines"}
		}
		res := tx.Delete(&model.Client{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Kind: "client", ID: id}
		}
		return nil
	})
}

func (s *gormStore) CreateFournisseur(ctx context.Context, f *model.Fournisseur) (*model.Fournisseur, error) {
	if strings.TrimSpace(f.Nom) == "" {
		return nil, &InvalidInputError{Field: "nom", Reason: "required"}
	}
	if err := s.db.WithContext(ctx).Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

func (s *gormStore) GetFournisseur(ctx context.Context, id int64) (*model.Fournisseur, error) {
	var f model.Fournisseur
	err := s.db.WithContext(ctx).Preload("Pieces").First(&f, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "fournisseur", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *gormStore) ListFournisseurs(ctx context.Context) ([]model.Fournisseur, error) {
	var fournisseurs []model.Fournisseur
	if err := s.db.WithContext(ctx).Order("nom ASC").Find(&fournisseurs).Error; err != nil {
		return nil, err
	}
	return fournisseurs, nil
}

func (s *gormStore) UpdateFournisseur(ctx context.Context, id int64, in *model.Fournisseur) (*model.Fournisseur, error) {
	var f model.Fournisseur
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&f, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Kind: "fournisseur", ID: id}
			}
			return err
		}
		if in.Nom != "" {
			f.Nom = in.Nom
		}
		if in.Email != "" {
			f.Email = in.Email
		}
		if in.Telephone != "" {
			f.Telephone = in.Telephone
		}
		if in.Adresse != "" {
			f.Adresse = in.Adresse
		}
		return tx.Save(&f).Error
	})
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *gormStore) DeleteFournisseur(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pieces int64
		if err := tx.Model(&model.Piece{}).Where("fournisseur_id = ?", id).Count(&pieces).Error; err != nil {
			return err
		}
		if pieces > 0 {
			return &ConflictError{Reason: "fournisseur still supplies pieces"}
		}
		res := tx.Delete(&model.Fournisseur{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Kind: "fournisseur", ID: id}
		}
		return nil
	})
}
