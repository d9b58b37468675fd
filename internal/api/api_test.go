package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gmao-backend/internal/auth"
	"gmao-backend/internal/model"
	"gmao-backend/internal/store"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func setupAPI(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Client{},
		&model.Fournisseur{},
		&model.Machine{},
		&model.Technicien{},
		&model.Piece{},
		&model.WorkOrder{},
		&model.PartsUsage{},
		&model.MouvementStock{},
		&model.PushSubscription{},
	))

	s := store.NewGormStore(db)
	router := NewRouter(s, RouterOptions{
		JWTSecret:   testSecret,
		JWTIssuer:   "gmao-backend-test",
		JWTTTLHours: 1,
		RateLimit:   1000,
		RateBurst:   1000,
		CacheTTL:    time.Minute,
	})
	return router, s
}

// seedLogin creates a user with the given roles and returns a bearer token.
func seedLogin(t *testing.T, router *gin.Engine, s store.Store, email string, roles []string) (string, *model.User) {
	t.Helper()
	hash, err := auth.HashPassword("secret-password")
	require.NoError(t, err)
	user, err := s.CreateUser(context.Background(), &model.User{
		Email:        email,
		Nom:          "Test",
		Prenom:       "User",
		PasswordHash: hash,
		Roles:        roles,
	})
	require.NoError(t, err)

	w := doJSON(router, http.MethodPost, "/api/auth/login", "",
		map[string]any{"email": email, "password": "secret-password"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token, user
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginAndMe(t *testing.T) {
	router, s := setupAPI(t)
	token, user := seedLogin(t, router, s, "admin@example.com", []string{"ROLE_ADMIN"})

	w := doJSON(router, http.MethodPost, "/api/auth/login", "",
		map[string]any{"email": "admin@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me model.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, user.ID, me.ID)
	assert.NotContains(t, w.Body.String(), "passwordHash")
}

func TestAuthGating(t *testing.T) {
	router, s := setupAPI(t)

	// No token at all.
	w := doJSON(router, http.MethodGet, "/api/workorders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	userToken, _ := seedLogin(t, router, s, "user@example.com", []string{"ROLE_USER"})
	techToken, _ := seedLogin(t, router, s, "tech@example.com", []string{"ROLE_TECHNICIEN"})

	// A plain user can read but not manage the asset base.
	w = doJSON(router, http.MethodGet, "/api/machines", userToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodPost, "/api/machines", userToken, map[string]any{
		"reference": "M-X", "modele": "A", "marque": "B", "type": "C",
		"dateAcquisition": time.Now().UTC(),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Technicians cannot hard-delete work orders.
	w = doJSON(router, http.MethodDelete, "/api/workorders/1", techToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A garbage token is unauthorized, not forbidden.
	w = doJSON(router, http.MethodGet, "/api/workorders", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWorkOrderFlowHTTP(t *testing.T) {
	router, s := setupAPI(t)
	adminToken, _ := seedLogin(t, router, s, "admin@example.com", []string{"ROLE_ADMIN"})

	w := doJSON(router, http.MethodPost, "/api/machines", adminToken, map[string]any{
		"reference": "M-100", "modele": "X200", "marque": "Acme", "type": "Presse",
		"dateAcquisition": time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var machine model.Machine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &machine))
	assert.NotEmpty(t, machine.QRCodeData)

	w = doJSON(router, http.MethodPost, "/api/workorders", adminToken, map[string]any{
		"machineId": machine.ID, "description": "Bruit anormal au demarrage",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var wo struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wo))
	assert.Equal(t, "reported", wo.Status)

	// Skipping straight to completed must fail with the allowed edges.
	w = doJSON(router, http.MethodPost, fmt.Sprintf("/api/workorders/%d/status", wo.ID), adminToken,
		map[string]any{"status": "completed"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var errResp struct {
		Allowed []string `json:"allowedTransitions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.ElementsMatch(t, []string{"assigned", "cancelled"}, errResp.Allowed)

	// Assign and start.
	_, techUser := seedLogin(t, router, s, "tech2@example.com", []string{"ROLE_TECHNICIEN"})
	w = doJSON(router, http.MethodPost, "/api/techniciens", adminToken, map[string]any{
		"userId": techUser.ID, "specialite": "Mecanique", "tauxHoraire": 38,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var tech model.Technicien
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tech))

	w = doJSON(router, http.MethodPost, fmt.Sprintf("/api/workorders/%d/assign", wo.ID), adminToken,
		map[string]any{"technicienId": tech.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPost, fmt.Sprintf("/api/workorders/%d/status", wo.ID), adminToken,
		map[string]any{"status": "in_progress"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The cascade is visible over HTTP too.
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/machines/%d", machine.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mAfter model.Machine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mAfter))
	assert.Equal(t, model.MachineEnMaintenance, mAfter.Statut)
}

func TestPartsConsumptionHTTP(t *testing.T) {
	router, s := setupAPI(t)
	adminToken, _ := seedLogin(t, router, s, "admin@example.com", []string{"ROLE_ADMIN"})

	machine, err := s.CreateMachine(context.Background(), &model.Machine{
		Reference: "M-200", Modele: "A", Marque: "B", Type: "C",
		DateAcquisition: time.Now().UTC(),
	})
	require.NoError(t, err)
	piece, err := s.CreatePiece(context.Background(), &model.Piece{
		Reference: "P-500", Nom: "Roulement", PrixUnitaire: 18, QuantiteStock: 3, SeuilAlerte: 1,
	})
	require.NoError(t, err)
	wo, err := s.CreateWorkOrder(context.Background(), store.CreateWorkOrderInput{
		MachineID: machine.ID, Description: "Roulement use",
	})
	require.NoError(t, err)

	w := doJSON(router, http.MethodPost, fmt.Sprintf("/api/workorders/%d/parts", wo.ID), adminToken,
		map[string]any{"pieceId": piece.ID, "quantite": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Over-consumption reports the precise availability.
	w = doJSON(router, http.MethodPost, fmt.Sprintf("/api/workorders/%d/parts", wo.ID), adminToken,
		map[string]any{"pieceId": piece.ID, "quantite": 5})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var errResp struct {
		Available int `json:"available"`
		Requested int `json:"requested"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, 1, errResp.Available)
	assert.Equal(t, 5, errResp.Requested)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/workorders/%d", wo.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var woResp struct {
		PartsCost float64 `json:"partsCost"`
		TotalCost float64 `json:"totalCost"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &woResp))
	assert.Equal(t, 36.0, woResp.PartsCost)
	assert.Equal(t, 36.0, woResp.TotalCost)
}

func TestInvoiceEndpoint(t *testing.T) {
	router, s := setupAPI(t)
	adminToken, _ := seedLogin(t, router, s, "admin@example.com", []string{"ROLE_ADMIN"})

	machine, err := s.CreateMachine(context.Background(), &model.Machine{
		Reference: "M-300", Modele: "A", Marque: "B", Type: "C",
		DateAcquisition: time.Now().UTC(),
	})
	require.NoError(t, err)
	wo, err := s.CreateWorkOrder(context.Background(), store.CreateWorkOrderInput{
		MachineID: machine.ID, Description: "Entretien facturable",
	})
	require.NoError(t, err)

	// Not completed yet.
	w := doJSON(router, http.MethodGet, fmt.Sprintf("/api/workorders/%d/invoice", wo.ID), adminToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	_, techUser := seedLogin(t, router, s, "tech@example.com", []string{"ROLE_TECHNICIEN"})
	tech, err := s.CreateTechnicien(context.Background(), &model.Technicien{
		UserID: techUser.ID, Specialite: "Generale", TauxHoraire: 30,
	})
	require.NoError(t, err)
	_, err = s.AssignTechnician(context.Background(), wo.ID, tech.ID)
	require.NoError(t, err)
	_, err = s.TransitionWorkOrder(context.Background(), wo.ID, "in_progress", store.TransitionExtra{})
	require.NoError(t, err)
	labor := 90.0
	_, err = s.TransitionWorkOrder(context.Background(), wo.ID, "completed", store.TransitionExtra{LaborCost: &labor})
	require.NoError(t, err)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/workorders/%d/invoice", wo.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var inv struct {
		Numero string  `json:"numero"`
		Total  float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inv))
	assert.Equal(t, fmt.Sprintf("facture_%06d", wo.ID), inv.Numero)
	assert.Equal(t, 90.0, inv.Total)
}

func TestVAPIDUnconfigured(t *testing.T) {
	router, _ := setupAPI(t)
	w := doJSON(router, http.MethodGet, "/api/vapid_public_key", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
