package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gmao-backend/internal/model"
)

type clientRequest struct {
	Nom       string `json:"nom" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Telephone string `json:"telephone"`
	Adresse   string `json:"adresse"`
}

// CreateClient handles POST /api/clients.
func (h *Handler) CreateClient(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.store.CreateClient(c.Request.Context(), &model.Client{
		Nom:       req.Nom,
		Email:     req.Email,
		Telephone: req.Telephone,
		Adresse:   req.Adresse,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// ListClients handles GET /api/clients.
func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.store.ListClients(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClient handles GET /api/clients/:id.
func (h *Handler) GetClient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	client, err := h.store.GetClient(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient handles PUT /api/clients/:id.
func (h *Handler) UpdateClient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.store.UpdateClient(c.Request.Context(), id, &model.Client{
		Nom:       req.Nom,
		Email:     req.Email,
		Telephone: req.Telephone,
		Adresse:   req.Adresse,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles DELETE /api/clients/:id.
func (h *Handler) DeleteClient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteClient(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
