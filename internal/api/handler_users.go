package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gmao-backend/internal/auth"
	"gmao-backend/internal/model"
)

type createUserRequest struct {
	Email    string   `json:"email" binding:"required,email"`
	Nom      string   `json:"nom" binding:"required"`
	Prenom   string   `json:"prenom" binding:"required"`
	Password string   `json:"password" binding:"required,min=8"`
	Roles    []string `json:"roles"`
}

// CreateUser handles POST /api/users. Admin only; role names are validated
// against the closed set before being stored.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{string(auth.RoleUser)}
	}
	for _, name := range roles {
		if _, err := auth.ParseRole(name); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), &model.User{
		Email:        req.Email,
		Nom:          req.Nom,
		Prenom:       req.Prenom,
		PasswordHash: hash,
		Roles:        roles,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}
