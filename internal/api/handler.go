package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"gmao-backend/internal/notification"
	"gmao-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	webpush *webpush.Options
	pool    *notification.WorkerPool

	jwtSecret string
	jwtIssuer string
	jwtTTL    int // hours
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, webpushOptions *webpush.Options, pool *notification.WorkerPool, jwtSecret, jwtIssuer string, jwtTTLHours int) *Handler {
	return &Handler{
		store:     s,
		webpush:   webpushOptions,
		pool:      pool,
		jwtSecret: jwtSecret,
		jwtIssuer: jwtIssuer,
		jwtTTL:    jwtTTLHours,
	}
}

// listResponse is the common shape of paginated list endpoints.
type listResponse struct {
	Items      any   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	TotalPages int64 `json:"totalPages"`
}

// idParam parses the :id path segment.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// parseID parses a numeric query value, returning 0 when absent or invalid.
func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// writeError maps store errors onto HTTP responses. Transition and stock
// errors carry enough structure for the client to recover without a re-read.
func writeError(c *gin.Context, err error) {
	var notFound *store.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}

	var invalidInput *store.InvalidInputError
	if errors.As(err, &invalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidInput.Error()})
		return
	}

	var invalidTransition *store.InvalidTransitionError
	if errors.As(err, &invalidTransition) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":              invalidTransition.Error(),
			"allowedTransitions": invalidTransition.Allowed,
		})
		return
	}

	var insufficient *store.InsufficientStockError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     insufficient.Error(),
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
		return
	}

	var conflict *store.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
