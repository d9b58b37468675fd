package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gmao-backend/internal/model"
	"gmao-backend/internal/workorder"
)

// CreateWorkOrderInput carries the fields accepted when reporting new work.
type CreateWorkOrderInput struct {
	MachineID         int64
	Type              workorder.Type
	Origin            workorder.Origin
	Priority          workorder.Priority
	Severity          workorder.Severity
	Description       string
	ScheduledDate     *time.Time
	EstimatedDuration *int
}

// UpdateWorkOrderInput carries the freely editable fields of a work order.
// Nil pointers leave the current value untouched.
type UpdateWorkOrderInput struct {
	Priority          *workorder.Priority
	Severity          *workorder.Severity
	Description       *string
	ScheduledDate     *time.Time
	EstimatedDuration *int
}

// TransitionExtra carries the optional completion fields of a status change.
type TransitionExtra struct {
	Resolution string
	LaborCost  *float64
	PartsCost  *float64
}

// WorkOrderFilter narrows and paginates work order listings.
type WorkOrderFilter struct {
	Status       workorder.Status
	Type         workorder.Type
	Priority     workorder.Priority
	MachineID    int64
	TechnicienID int64
	Search       string
	Page         int
	Limit        int
}

// MouvementFilter narrows and paginates stock movement listings.
type MouvementFilter struct {
	PieceID  int64
	Type     string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}

// PieceFilter narrows and paginates piece listings.
type PieceFilter struct {
	Search string
	Page   int
	Limit  int
}

// MouvementSummary aggregates movements per direction over a period.
type MouvementSummary struct {
	Entrees MouvementTotals `json:"entrees"`
	Sorties MouvementTotals `json:"sorties"`
}

// MouvementTotals is one side of a movement summary.
type MouvementTotals struct {
	TotalQuantite int   `json:"totalQuantite"`
	TotalCount    int64 `json:"totalCount"`
}

// DashboardStats is the aggregate snapshot served to the dashboard.
type DashboardStats struct {
	MachinesByStatut       map[string]int64 `json:"machinesByStatut"`
	AvailableTechniciens   int64            `json:"availableTechniciens"`
	UrgentWorkOrders       int64            `json:"urgentWorkOrders"`
	WorkOrdersThisPeriod   int64            `json:"workOrdersThisPeriod"`
	CostsThisPeriod        float64          `json:"costsThisPeriod"`
	WorkOrdersLastPeriod   int64            `json:"workOrdersLastPeriod"`
	CostsLastPeriod        float64          `json:"costsLastPeriod"`
	OpenWorkOrdersByStatus map[string]int64 `json:"openWorkOrdersByStatus"`
}

// Store defines all database operations of the back office. The work order
// lifecycle, its machine/technician cascades and the inventory ledger live
// here so that every mutating operation runs as one transaction.
type Store interface {
	DB() *gorm.DB

	// Work order lifecycle
	CreateWorkOrder(ctx context.Context, in CreateWorkOrderInput) (*model.WorkOrder, error)
	GetWorkOrder(ctx context.Context, id int64) (*model.WorkOrder, error)
	ListWorkOrders(ctx context.Context, f WorkOrderFilter) ([]model.WorkOrder, int64, error)
	UpdateWorkOrder(ctx context.Context, id int64, in UpdateWorkOrderInput) (*model.WorkOrder, error)
	AssignTechnician(ctx context.Context, workOrderID, technicienID int64) (*model.WorkOrder, error)
	TransitionWorkOrder(ctx context.Context, id int64, to workorder.Status, extra TransitionExtra) (*model.WorkOrder, error)
	AttachSignature(ctx context.Context, id int64, signature string) error
	ConfirmByTech(ctx context.Context, id int64) error
	AddWorkOrderImages(ctx context.Context, id int64, urls []string) (*model.WorkOrder, error)
	RemoveWorkOrderImage(ctx context.Context, id int64, url string) (*model.WorkOrder, error)
	DeleteWorkOrder(ctx context.Context, id int64) error
	ListOverdueScheduled(ctx context.Context, now time.Time) ([]model.WorkOrder, error)

	// Inventory ledger
	AdjustStock(ctx context.Context, pieceID int64, direction string, quantite int, motif string) (*model.MouvementStock, error)
	CreatePiece(ctx context.Context, p *model.Piece) (*model.Piece, error)
	GetPiece(ctx context.Context, id int64) (*model.Piece, error)
	ListPieces(ctx context.Context, f PieceFilter) ([]model.Piece, int64, error)
	UpdatePiece(ctx context.Context, id int64, p *model.Piece) (*model.Piece, error)
	DeletePiece(ctx context.Context, id int64) error
	LowStockPieces(ctx context.Context) ([]model.Piece, error)
	ListMouvements(ctx context.Context, f MouvementFilter) ([]model.MouvementStock, int64, error)
	SummarizeMouvements(ctx context.Context, from, to *time.Time) (*MouvementSummary, error)

	// Parts consumption
	AttachPart(ctx context.Context, workOrderID, pieceID int64, quantite int) (*model.PartsUsage, error)
	DetachPart(ctx context.Context, usageID int64) error
	ListPartsUsages(ctx context.Context, workOrderID int64) ([]model.PartsUsage, error)

	// Machines
	CreateMachine(ctx context.Context, m *model.Machine) (*model.Machine, error)
	GetMachine(ctx context.Context, id int64) (*model.Machine, error)
	GetMachineByQRCode(ctx context.Context, code string) (*model.Machine, error)
	ListMachines(ctx context.Context, statut string, page, limit int) ([]model.Machine, int64, error)
	UpdateMachine(ctx context.Context, id int64, m *model.Machine) (*model.Machine, error)
	DeleteMachine(ctx context.Context, id int64) error

	// Technicians
	CreateTechnicien(ctx context.Context, t *model.Technicien) (*model.Technicien, error)
	GetTechnicien(ctx context.Context, id int64) (*model.Technicien, error)
	ListTechniciens(ctx context.Context, statut string) ([]model.Technicien, error)
	UpdateTechnicien(ctx context.Context, id int64, t *model.Technicien) (*model.Technicien, error)
	SetTechnicienStatut(ctx context.Context, id int64, statut string) (*model.Technicien, error)
	DeleteTechnicien(ctx context.Context, id int64) error

	// Clients and suppliers
	CreateClient(ctx context.Context, c *model.Client) (*model.Client, error)
	GetClient(ctx context.Context, id int64) (*model.Client, error)
	ListClients(ctx context.Context) ([]model.Client, error)
	UpdateClient(ctx context.Context, id int64, c *model.Client) (*model.Client, error)
	DeleteClient(ctx context.Context, id int64) error
	CreateFournisseur(ctx context.Context, f *model.Fournisseur) (*model.Fournisseur, error)
	GetFournisseur(ctx context.Context, id int64) (*model.Fournisseur, error)
	ListFournisseurs(ctx context.Context) ([]model.Fournisseur, error)
	UpdateFournisseur(ctx context.Context, id int64, f *model.Fournisseur) (*model.Fournisseur, error)
	DeleteFournisseur(ctx context.Context, id int64) error

	// Users and push subscriptions
	CreateUser(ctx context.Context, u *model.User) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	PutSubscription(ctx context.Context, s *model.PushSubscription) error
	DeleteSubscription(ctx context.Context, endpoint string) error
	ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error)

	// Reporting
	Dashboard(ctx context.Context, period string) (*DashboardStats, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for migrations and read-only handlers.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func normalizePage(page, limit, defaultLimit int) (int, int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return page, limit, (page - 1) * limit
}
