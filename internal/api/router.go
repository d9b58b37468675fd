package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"gmao-backend/internal/auth"
	"gmao-backend/internal/mw"
	"gmao-backend/internal/notification"
	"gmao-backend/internal/store"
)

// RouterOptions carries everything the router wires besides the store.
type RouterOptions struct {
	Webpush     *webpush.Options
	Pool        *notification.WorkerPool
	JWTSecret   string
	JWTIssuer   string
	JWTTTLHours int
	RateLimit   float64
	RateBurst   int
	CacheTTL    time.Duration
}

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, opts RouterOptions) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, opts.Webpush, opts.Pool, opts.JWTSecret, opts.JWTIssuer, opts.JWTTTLHours)

	rateLimiter := mw.RateLimiter(rate.Limit(opts.RateLimit), opts.RateBurst)
	caching := mw.CacheGET(opts.CacheTTL)
	authed := mw.Authenticate(opts.JWTSecret)

	// Role shorthands. The hierarchy makes higher roles satisfy lower
	// requirements, so a single role per gate is enough.
	receptionist := mw.RequireRole(auth.RoleReceptionist)
	technicien := mw.RequireRole(auth.RoleTechnicien, auth.RoleReceptionist)
	admin := mw.RequireRole(auth.RoleAdmin)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/login", handler.Login)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		authv := api.Group("", authed)

		authv.GET("/auth/me", handler.Me)
		authv.POST("/users", admin, handler.CreateUser)

		// Work orders
		authv.POST("/workorders", handler.CreateWorkOrder)
		authv.GET("/workorders", handler.ListWorkOrders)
		authv.GET("/workorders/:id", handler.GetWorkOrder)
		authv.PUT("/workorders/:id", receptionist, handler.UpdateWorkOrder)
		authv.POST("/workorders/:id/assign", receptionist, handler.AssignTechnician)
		authv.POST("/workorders/:id/status", technicien, handler.TransitionWorkOrder)
		authv.POST("/workorders/:id/signature", technicien, handler.AttachSignature)
		authv.POST("/workorders/:id/confirm-tech", technicien, handler.ConfirmByTech)
		authv.POST("/workorders/:id/images", technicien, handler.AddWorkOrderImages)
		authv.DELETE("/workorders/:id/images", technicien, handler.RemoveWorkOrderImage)
		authv.DELETE("/workorders/:id", admin, handler.DeleteWorkOrder)
		authv.GET("/workorders/:id/invoice", handler.GetInvoice)

		// Parts consumption
		authv.GET("/workorders/:id/parts", handler.ListWorkOrderParts)
		authv.POST("/workorders/:id/parts", technicien, handler.AttachPart)
		authv.DELETE("/parts-usages/:id", technicien, handler.DetachPart)

		// Inventory
		authv.POST("/pieces", receptionist, handler.CreatePiece)
		authv.GET("/pieces", handler.ListPieces)
		authv.GET("/pieces/low-stock", handler.LowStockPieces)
		authv.GET("/pieces/:id", handler.GetPiece)
		authv.PUT("/pieces/:id", receptionist, handler.UpdatePiece)
		authv.PATCH("/pieces/:id/stock", receptionist, handler.AdjustStock)
		authv.DELETE("/pieces/:id", admin, handler.DeletePiece)
		authv.GET("/mouvements", handler.ListMouvements)
		authv.GET("/mouvements/summary", handler.SummarizeMouvements)

		// Machines
		authv.POST("/machines", receptionist, handler.CreateMachine)
		authv.GET("/machines", handler.ListMachines)
		authv.GET("/machines/qr/:code", handler.GetMachineByQRCode)
		authv.GET("/machines/:id", handler.GetMachine)
		authv.PUT("/machines/:id", receptionist, handler.UpdateMachine)
		authv.DELETE("/machines/:id", admin, handler.DeleteMachine)

		// Technicians
		authv.POST("/techniciens", admin, handler.CreateTechnicien)
		authv.GET("/techniciens", handler.ListTechniciens)
		authv.GET("/techniciens/:id", handler.GetTechnicien)
		authv.PUT("/techniciens/:id", admin, handler.UpdateTechnicien)
		authv.PATCH("/techniciens/:id/statut", technicien, handler.SetTechnicienStatut)
		authv.GET("/techniciens/:id/workorders", handler.ListTechnicienWorkOrders)
		authv.DELETE("/techniciens/:id", admin, handler.DeleteTechnicien)

		// Clients and suppliers
		authv.POST("/clients", receptionist, handler.CreateClient)
		authv.GET("/clients", handler.ListClients)
		authv.GET("/clients/:id", handler.GetClient)
		authv.PUT("/clients/:id", receptionist, handler.UpdateClient)
		authv.DELETE("/clients/:id", admin, handler.DeleteClient)
		authv.POST("/fournisseurs", receptionist, handler.CreateFournisseur)
		authv.GET("/fournisseurs", handler.ListFournisseurs)
		authv.GET("/fournisseurs/:id", handler.GetFournisseur)
		authv.PUT("/fournisseurs/:id", receptionist, handler.UpdateFournisseur)
		authv.DELETE("/fournisseurs/:id", admin, handler.DeleteFournisseur)

		// Reporting
		authv.GET("/dashboard", caching, handler.GetDashboard)

		// Push subscriptions for low-stock alerts
		authv.PUT("/subscriptions", handler.PutSubscription)
		authv.DELETE("/subscriptions", handler.DeleteSubscription)
	}

	return r
}
