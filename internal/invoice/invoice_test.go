package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmao-backend/internal/model"
	"gmao-backend/internal/workorder"
)

func TestNumber(t *testing.T) {
	assert.Equal(t, "facture_000042", Number(42))
	assert.Equal(t, "facture_123456", Number(123456))
}

func TestBuild_RejectsNonCompleted(t *testing.T) {
	_, err := Build(&model.WorkOrder{ID: 1, Status: workorder.StatusInProgress})
	assert.Error(t, err)
}

func TestBuild_SnapshotUsesFrozenPrices(t *testing.T) {
	completed := time.Date(2026, 3, 10, 16, 30, 0, 0, time.UTC)
	wo := &model.WorkOrder{
		ID:            7,
		Status:        workorder.StatusCompleted,
		DateCompleted: &completed,
		LaborCost:     120,
		PartsCost:     80,
		Machine: &model.Machine{
			ID:        3,
			Reference: "M-003",
			Client:    &model.Client{ID: 9, Nom: "Blanchisserie Nord"},
		},
		PartsUsages: []model.PartsUsage{
			{
				PieceID:              5,
				Quantite:             4,
				PrixUnitaireApplique: 20, // frozen, catalog now says 35
				Piece:                &model.Piece{ID: 5, Nom: "Joint torique", PrixUnitaire: 35},
			},
		},
	}

	inv, err := Build(wo)
	require.NoError(t, err)

	assert.Equal(t, "facture_000007", inv.Numero)
	assert.Equal(t, 200.0, inv.Total)
	require.NotNil(t, inv.Client)
	assert.Equal(t, "Blanchisserie Nord", inv.Client.Nom)

	require.Len(t, inv.Lines, 2)
	assert.Equal(t, "Joint torique", inv.Lines[0].Designation)
	assert.Equal(t, 20.0, inv.Lines[0].PrixUnitaire)
	assert.Equal(t, 80.0, inv.Lines[0].Montant)
	assert.Equal(t, "Main d'oeuvre", inv.Lines[1].Designation)
	assert.Equal(t, 120.0, inv.Lines[1].Montant)
}
