package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gmao-backend/internal/model"
)

type fournisseurRequest struct {
	Nom       string `json:"nom" binding:"required"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	Adresse   string `json:"adresse"`
}

// CreateFournisseur handles POST /api/fournisseurs.
func (h *Handler) CreateFournisseur(c *gin.Context) {
	var req fournisseurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := h.store.CreateFournisseur(c.Request.Context(), &model.Fournisseur{
		Nom:       req.Nom,
		Email:     req.Email,
		Telephone: req.Telephone,
		Adresse:   req.Adresse,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// ListFournisseurs handles GET /api/fournisseurs.
func (h *Handler) ListFournisseurs(c *gin.Context) {
	fs, err := h.store.ListFournisseurs(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, fs)
}

// GetFournisseur handles GET /api/fournisseurs/:id.
func (h *Handler) GetFournisseur(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	f, err := h.store.GetFournisseur(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// UpdateFournisseur handles PUT /api/fournisseurs/:id.
func (h *Handler) UpdateFournisseur(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req fournisseurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := h.store.UpdateFournisseur(c.Request.Context(), id, &model.Fournisseur{
		Nom:       req.Nom,
		Email:     req.Email,
		Telephone: req.Telephone,
		Adresse:   req.Adresse,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// DeleteFournisseur handles DELETE /api/fournisseurs/:id.
func (h *Handler) DeleteFournisseur(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteFournisseur(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
