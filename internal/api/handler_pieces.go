package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gmao-backend/internal/model"
	"gmao-backend/internal/paginate"
	"gmao-backend/internal/store"
)

type pieceRequest struct {
	Reference     string  `json:"reference" binding:"required"`
	Nom           string  `json:"nom" binding:"required"`
	Description   string  `json:"description"`
	PrixUnitaire  float64 `json:"prixUnitaire"`
	QuantiteStock int     `json:"quantiteStock"`
	SeuilAlerte   int     `json:"seuilAlerte"`
	Emplacement   string  `json:"emplacement"`
	FournisseurID *int64  `json:"fournisseurId"`
}

// CreatePiece handles POST /api/pieces. A non-zero opening quantity is
// recorded as a "Stock initial" movement.
func (h *Handler) CreatePiece(c *gin.Context) {
	var req pieceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	piece, err := h.store.CreatePiece(c.Request.Context(), &model.Piece{
		Reference:     req.Reference,
		Nom:           req.Nom,
		Description:   req.Description,
		PrixUnitaire:  req.PrixUnitaire,
		QuantiteStock: req.QuantiteStock,
		SeuilAlerte:   req.SeuilAlerte,
		Emplacement:   req.Emplacement,
		FournisseurID: req.FournisseurID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, piece)
}

// ListPieces handles GET /api/pieces.
func (h *Handler) ListPieces(c *gin.Context) {
	page, limit := paginate.Parse(c.Query("page"), c.Query("limit"), 20, 100)

	items, total, err := h.store.ListPieces(c.Request.Context(), store.PieceFilter{
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
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

// GetPiece handles GET /api/pieces/:id.
func (h *Handler) GetPiece(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	piece, err := h.store.GetPiece(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, piece)
}

// UpdatePiece handles PUT /api/pieces/:id. The on-hand quantity is not
// writable here; it only moves through the stock endpoint.
func (h *Handler) UpdatePiece(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req pieceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	piece, err := h.store.UpdatePiece(c.Request.Context(), id, &model.Piece{
		Reference:     req.Reference,
		Nom:           req.Nom,
		Description:   req.Description,
		PrixUnitaire:  req.PrixUnitaire,
		SeuilAlerte:   req.SeuilAlerte,
		Emplacement:   req.Emplacement,
		FournisseurID: req.FournisseurID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, piece)
}

// DeletePiece handles DELETE /api/pieces/:id.
func (h *Handler) DeletePiece(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeletePiece(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type adjustStockRequest struct {
	Type     string `json:"type" binding:"required"`
	Quantite int    `json:"quantite" binding:"required"`
	Motif    string `json:"motif"`
}

// AdjustStock handles PATCH /api/pieces/:id/stock: one entree or sortie with
// its audit movement.
func (h *Handler) AdjustStock(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mv, err := h.store.AdjustStock(c.Request.Context(), id, req.Type, req.Quantite, req.Motif)
	if err != nil {
		writeError(c, err)
		return
	}

	if h.pool != nil && mv.Piece != nil && mv.Piece.IsLowStock() {
		h.pool.Dispatch(mv.PieceID)
	}

	c.JSON(http.StatusOK, mv)
}

// LowStockPieces handles GET /api/pieces/low-stock.
func (h *Handler) LowStockPieces(c *gin.Context) {
	pieces, err := h.store.LowStockPieces(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pieces)
}
