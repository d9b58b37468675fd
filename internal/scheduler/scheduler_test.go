package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gmao-backend/config"
	"gmao-backend/internal/model"
	"gmao-backend/internal/notification"
	"gmao-backend/internal/store"
)

func newTestStore(t *testing.T) (store.Store, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:sched_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	require.NoError(t, db.AutoMigrate(
		&model.Machine{}, &model.Piece{}, &model.WorkOrder{},
		&model.PartsUsage{}, &model.MouvementStock{}, &model.PushSubscription{},
	))
	return store.NewGormStore(db), db
}

func TestSweep_DispatchesLowStockAlerts(t *testing.T) {
	s, db := newTestStore(t)

	_, err := s.CreatePiece(context.Background(), &model.Piece{
		Reference: "P-1", Nom: "Filtre", PrixUnitaire: 5, QuantiteStock: 1, SeuilAlerte: 3,
	})
	require.NoError(t, err)
	_, err = s.CreatePiece(context.Background(), &model.Piece{
		Reference: "P-2", Nom: "Courroie", PrixUnitaire: 5, QuantiteStock: 50, SeuilAlerte: 3,
	})
	require.NoError(t, err)

	pool := notification.NewWorkerPool(4, db, &webpush.Options{})
	svc := NewService(&config.Config{}, s, pool)

	svc.Sweep(context.Background())

	select {
	case pieceID := <-pool.Jobs():
		var piece model.Piece
		require.NoError(t, db.First(&piece, pieceID).Error)
		assert.Equal(t, "P-1", piece.Reference)
	case <-time.After(time.Second):
		t.Fatal("expected a low-stock dispatch")
	}
	select {
	case pieceID := <-pool.Jobs():
		t.Fatalf("unexpected extra dispatch for piece %d", pieceID)
	default:
	}
}

func TestStart_DisabledIsNoop(t *testing.T) {
	s, _ := newTestStore(t)
	svc := NewService(&config.Config{}, s, nil)
	require.NoError(t, svc.Start(context.Background()))
}
