package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gmao-backend/internal/model"
	"gmao-backend/internal/paginate"
)

type machineRequest struct {
	Reference       string    `json:"reference" binding:"required"`
	Modele          string    `json:"modele" binding:"required"`
	Marque          string    `json:"marque" binding:"required"`
	Type            string    `json:"type" binding:"required"`
	DateAcquisition time.Time `json:"dateAcquisition" binding:"required"`
	Statut          string    `json:"statut"`
	ClientID        *int64    `json:"clientId"`
	Images          []string  `json:"images"`
	PrimaryImage    string    `json:"primaryImage"`
}

// CreateMachine handles POST /api/machines. A QR code is generated when none
// is supplied.
func (h *Handler) CreateMachine(c *gin.Context) {
	var req machineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	machine, err := h.store.CreateMachine(c.Request.Context(), &model.Machine{
		Reference:       req.Reference,
		Modele:          req.Modele,
		Marque:          req.Marque,
		Type:            req.Type,
		DateAcquisition: req.DateAcquisition,
		Statut:          req.Statut,
		ClientID:        req.ClientID,
		Images:          req.Images,
		PrimaryImage:    req.PrimaryImage,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, machine)
}

// ListMachines handles GET /api/machines.
func (h *Handler) ListMachines(c *gin.Context) {
	page, limit := paginate.Parse(c.Query("page"), c.Query("limit"), 20, 100)

	items, total, err := h.store.ListMachines(c.Request.Context(), c.Query("statut"), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		TotalPages: paginate.TotalPages(total, limit),
	})
}

// GetMachine handles GET /api/machines/:id.
func (h *Handler) GetMachine(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	machine, err := h.store.GetMachine(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, machine)
}

// GetMachineByQRCode handles GET /api/machines/qr/:code, the mobile scan
// entry point.
func (h *Handler) GetMachineByQRCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing qr code"})
		return
	}
	machine, err := h.store.GetMachineByQRCode(c.Request.Context(), code)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, machine)
}

// UpdateMachine handles PUT /api/machines/:id.
func (h *Handler) UpdateMachine(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req machineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	machine, err := h.store.UpdateMachine(c.Request.Context(), id, &model.Machine{
		Reference:       req.Reference,
		Modele:          req.Modele,
		Marque:          req.Marque,
		Type:            req.Type,
		DateAcquisition: req.DateAcquisition,
		Statut:          req.Statut,
		ClientID:        req.ClientID,
		Images:          req.Images,
		PrimaryImage:    req.PrimaryImage,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, machine)
}

// DeleteMachine handles DELETE /api/machines/:id.
func (h *Handler) DeleteMachine(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteMachine(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
