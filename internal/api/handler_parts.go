package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListWorkOrderParts handles GET /api/workorders/:id/parts.
func (h *Handler) ListWorkOrderParts(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	usages, err := h.store.ListPartsUsages(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, usages)
}

type attachPartRequest struct {
	PieceID  int64 `json:"pieceId" binding:"required"`
	Quantite int   `json:"quantite" binding:"required"`
}

// AttachPart handles POST /api/workorders/:id/parts. The usage row, the
// stock deduction and the cost recomputation commit together or not at all.
func (h *Handler) AttachPart(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req attachPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	usage, err := h.store.AttachPart(c.Request.Context(), id, req.PieceID, req.Quantite)
	if err != nil {
		writeError(c, err)
		return
	}

	// The deduction may have pushed the piece to its reorder threshold.
	if h.pool != nil && usage.Piece != nil && usage.Piece.IsLowStock() {
		h.pool.Dispatch(usage.PieceID)
	}

	c.JSON(http.StatusCreated, usage)
}

// DetachPart handles DELETE /api/parts-usages/:id. Stock is restored and the
// work order's parts cost recomputed.
func (h *Handler) DetachPart(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DetachPart(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
