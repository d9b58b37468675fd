package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gmao-backend/internal/invoice"
	"gmao-backend/internal/model"
	"gmao-backend/internal/paginate"
	"gmao-backend/internal/store"
	"gmao-backend/internal/workorder"
)

// workOrderResponse adds the derived total cost to the stored fields.
type workOrderResponse struct {
	model.WorkOrder
	TotalCost float64 `json:"totalCost"`
}

func toWorkOrderResponse(wo *model.WorkOrder) workOrderResponse {
	return workOrderResponse{WorkOrder: *wo, TotalCost: wo.TotalCost()}
}

type createWorkOrderRequest struct {
	MachineID         int64      `json:"machineId" binding:"required"`
	Type              string     `json:"type"`
	Origin            string     `json:"origin"`
	Priority          string     `json:"priority"`
	Severity          string     `json:"severity"`
	Description       string     `json:"description" binding:"required"`
	ScheduledDate     *time.Time `json:"scheduledDate"`
	EstimatedDuration *int       `json:"estimatedDuration"`
}

// CreateWorkOrder handles POST /api/workorders.
func (h *Handler) CreateWorkOrder(c *gin.Context) {
	var req createWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wo, err := h.store.CreateWorkOrder(c.Request.Context(), store.CreateWorkOrderInput{
		MachineID:         req.MachineID,
		Type:              workorder.Type(req.Type),
		Origin:            workorder.Origin(req.Origin),
		Priority:          workorder.Priority(req.Priority),
		Severity:          workorder.Severity(req.Severity),
		Description:       req.Description,
		ScheduledDate:     req.ScheduledDate,
		EstimatedDuration: req.EstimatedDuration,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toWorkOrderResponse(wo))
}

// ListWorkOrders handles GET /api/workorders.
func (h *Handler) ListWorkOrders(c *gin.Context) {
	page, limit := paginate.Parse(c.Query("page"), c.Query("limit"), 20, 100)

	f := store.WorkOrderFilter{
		Status:   workorder.Status(c.Query("status")),
		Type:     workorder.Type(c.Query("type")),
		Priority: workorder.Priority(c.Query("priority")),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	}
	if v := c.Query("machineId"); v != "" {
		f.MachineID = parseID(v)
	}
	if v := c.Query("technicienId"); v != "" {
		f.TechnicienID = parseID(v)
	}

	items, total, err := h.store.ListWorkOrders(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]workOrderResponse, len(items))
	for i := range items {
		out[i] = toWorkOrderResponse(&items[i])
	}
	c.JSON(http.StatusOK, listResponse{
		Items:      out,
		Total:      total,
		Page:       page,
		TotalPages: paginate.TotalPages(total, limit),
	})
}

// GetWorkOrder handles GET /api/workorders/:id.
func (h *Handler) GetWorkOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	wo, err := h.store.GetWorkOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWorkOrderResponse(wo))
}

type updateWorkOrderRequest struct {
	Priority          *string    `json:"priority"`
	Severity          *string    `json:"severity"`
	Description       *string    `json:"description"`
	ScheduledDate     *time.Time `json:"scheduledDate"`
	EstimatedDuration *int       `json:"estimatedDuration"`
}

// UpdateWorkOrder handles PUT /api/workorders/:id.
func (h *Handler) UpdateWorkOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req updateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := store.UpdateWorkOrderInput{
		Description:       req.Description,
		ScheduledDate:     req.ScheduledDate,
		EstimatedDuration: req.EstimatedDuration,
	}
	if req.Priority != nil {
		p := workorder.Priority(*req.Priority)
		in.Priority = &p
	}
	if req.Severity != nil {
		s := workorder.Severity(*req.Severity)
		in.Severity = &s
	}

	wo, err := h.store.UpdateWorkOrder(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWorkOrderResponse(wo))
}

type assignRequest struct {
	TechnicienID int64 `json:"technicienId" binding:"required"`
}

// AssignTechnician handles POST /api/workorders/:id/assign.
func (h *Handler) AssignTechnician(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wo, err := h.store.AssignTechnician(c.Request.Context(), id, req.TechnicienID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWorkOrderResponse(wo))
}

type transitionRequest struct {
	Status     string   `json:"status" binding:"required"`
	Resolution string   `json:"resolution"`
	LaborCost  *float64 `json:"laborCost"`
	PartsCost  *float64 `json:"partsCost"`
}

// TransitionWorkOrder handles POST /api/workorders/:id/status.
func (h *Handler) TransitionWorkOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wo, err := h.store.TransitionWorkOrder(c.Request.Context(), id,
		workorder.Status(req.Status), store.TransitionExtra{
			Resolution: req.Resolution,
			LaborCost:  req.LaborCost,
			PartsCost:  req.PartsCost,
		})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWorkOrderResponse(wo))
}

type signatureRequest struct {
	Signature string `json:"signature" binding:"required"`
}

// AttachSignature handles POST /api/workorders/:id/signature.
func (h *Handler) AttachSignature(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req signatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.AttachSignature(c.Request.Context(), id, req.Signature); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ConfirmByTech handles POST /api/workorders/:id/confirm-tech.
func (h *Handler) ConfirmByTech(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.ConfirmByTech(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addImagesRequest struct {
	URLs []string `json:"urls" binding:"required"`
}

// AddWorkOrderImages handles POST /api/workorders/:id/images.
func (h *Handler) AddWorkOrderImages(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req addImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wo, err := h.store.AddWorkOrderImages(c.Request.Context(), id, req.URLs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWorkOrderResponse(wo))
}

type removeImageRequest struct {
	URL string `json:"url" binding:"required"`
}

// RemoveWorkOrderImage handles DELETE /api/workorders/:id/images.
func (h *Handler) RemoveWorkOrderImage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req removeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wo, err := h.store.RemoveWorkOrderImage(c.Request.Context(), id, req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWorkOrderResponse(wo))
}

// DeleteWorkOrder handles DELETE /api/workorders/:id.
func (h *Handler) DeleteWorkOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteWorkOrder(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetInvoice handles GET /api/workorders/:id/invoice. The snapshot is built
// from the frozen usage prices, so it stays stable after catalog changes.
func (h *Handler) GetInvoice(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	wo, err := h.store.GetWorkOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	inv, err := invoice.Build(wo)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, inv)
}
