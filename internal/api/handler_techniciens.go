package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gmao-backend/internal/model"
	"gmao-backend/internal/paginate"
	"gmao-backend/internal/store"
	"gmao-backend/internal/workorder"
)

type technicienRequest struct {
	UserID      int64   `json:"userId" binding:"required"`
	Specialite  string  `json:"specialite" binding:"required"`
	TauxHoraire float64 `json:"tauxHoraire"`
}

// CreateTechnicien handles POST /api/techniciens.
func (h *Handler) CreateTechnicien(c *gin.Context) {
	var req technicienRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tech, err := h.store.CreateTechnicien(c.Request.Context(), &model.Technicien{
		UserID:      req.UserID,
		Specialite:  req.Specialite,
		TauxHoraire: req.TauxHoraire,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tech)
}

// ListTechniciens handles GET /api/techniciens.
func (h *Handler) ListTechniciens(c *gin.Context) {
	techs, err := h.store.ListTechniciens(c.Request.Context(), c.Query("statut"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, techs)
}

// GetTechnicien handles GET /api/techniciens/:id.
func (h *Handler) GetTechnicien(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	tech, err := h.store.GetTechnicien(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tech)
}

// UpdateTechnicien handles PUT /api/techniciens/:id.
func (h *Handler) UpdateTechnicien(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req technicienRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tech, err := h.store.UpdateTechnicien(c.Request.Context(), id, &model.Technicien{
		UserID:      req.UserID,
		Specialite:  req.Specialite,
		TauxHoraire: req.TauxHoraire,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tech)
}

type technicienStatutRequest struct {
	Statut string `json:"statut" binding:"required"`
}

// SetTechnicienStatut handles PATCH /api/techniciens/:id/statut. Self-service;
// the next work order transition may overwrite it.
func (h *Handler) SetTechnicienStatut(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req technicienStatutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tech, err := h.store.SetTechnicienStatut(c.Request.Context(), id, req.Statut)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tech)
}

// ListTechnicienWorkOrders handles GET /api/techniciens/:id/workorders.
func (h *Handler) ListTechnicienWorkOrders(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	page, limit := paginate.Parse(c.Query("page"), c.Query("limit"), 20, 100)

	items, total, err := h.store.ListWorkOrders(c.Request.Context(), store.WorkOrderFilter{
		TechnicienID: id,
		Status:       workorder.Status(c.Query("status")),
		Page:         page,
		Limit:        limit,
	})
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

// DeleteTechnicien handles DELETE /api/techniciens/:id.
func (h *Handler) DeleteTechnicien(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteTechnicien(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
