package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gmao-backend/internal/paginate"
	"gmao-backend/internal/store"
)

// ListMouvements handles GET /api/mouvements.
func (h *Handler) ListMouvements(c *gin.Context) {
	page, limit := paginate.Parse(c.Query("page"), c.Query("limit"), 20, 100)

	f := store.MouvementFilter{
		Type:  c.Query("type"),
		Page:  page,
		Limit: limit,
	}
	if v := c.Query("pieceId"); v != "" {
		f.PieceID = parseID(v)
	}
	var ok bool
	if f.DateFrom, ok = parseDate(c, "dateFrom"); !ok {
		return
	}
	if f.DateTo, ok = parseDate(c, "dateTo"); !ok {
		return
	}

	items, total, err := h.store.ListMouvements(c.Request.Context(), f)
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

// SummarizeMouvements handles GET /api/mouvements/summary.
func (h *Handler) SummarizeMouvements(c *gin.Context) {
	from, ok := parseDate(c, "dateFrom")
	if !ok {
		return
	}
	to, ok := parseDate(c, "dateTo")
	if !ok {
		return
	}

	summary, err := h.store.SummarizeMouvements(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// parseDate reads an optional RFC3339 query value. On a malformed value it
// writes the 400 itself and reports false.
func parseDate(c *gin.Context, key string) (*time.Time, bool) {
	v := c.Query(key)
	if v == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key + ": use RFC3339"})
		return nil, false
	}
	return &t, true
}
