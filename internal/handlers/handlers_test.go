package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alimgiray/gcrm/internal/auth"
	"github.com/alimgiray/gcrm/internal/importer"
	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/internal/propagation"
	"github.com/alimgiray/gcrm/internal/repositories"
	"github.com/alimgiray/gcrm/internal/services"
	"github.com/alimgiray/gcrm/pkg/config"
	"github.com/alimgiray/gcrm/pkg/database"
	"github.com/alimgiray/gcrm/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUploadLimit = 64 << 10

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	logger.SetOutput(io.Discard)
	require.NoError(t, config.Load())
	gin.SetMode(gin.TestMode)

	db, err := database.Open(filepath.Join(t.TempDir(), "handlers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(db))

	store := repositories.NewStore(db)
	engine := propagation.NewEngine()
	userService := services.NewUserService(store, auth.NewTokenManager("test-secret", time.Hour))

	router := gin.New()
	router.Use(gin.Recovery())
	SetupRoutes(router, &Handlers{
		Auth:          NewAuthHandler(userService),
		Profile:       NewProfileHandler(userService),
		CustomerLists: NewCustomerListHandler(services.NewCustomerListService(store), services.NewImportService(store, engine), testUploadLimit),
		Customers:     NewCustomerHandler(services.NewCustomerService(store, engine)),
		Campaigns:     NewCampaignHandler(services.NewCampaignService(store, engine)),
		Dashboard:     NewDashboardHandler(services.NewDashboardService(store)),
		Health:        NewHealthHandler(db),
		NotFound:      NewNotFoundHandler(),
	}, userService)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func upload(t *testing.T, router *gin.Engine, path, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func register(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	w := do(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Jane Doe",
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[services.AuthResult](t, w).Token
}

func createList(t *testing.T, router *gin.Engine, token, name string) *models.CustomerList {
	t.Helper()
	w := do(t, router, http.MethodPost, "/api/customer-lists", token, gin.H{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[*models.CustomerList](t, w)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"health":"ok"}`, w.Body.String())
}

func TestProtectedRoutesRequireAuthentication(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/customer-lists", "/api/customers", "/api/campaigns", "/api/dashboard", "/api/profile"} {
		w := do(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := do(t, router, http.MethodGet, "/api/campaigns", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "jane@example.com")

	w := do(t, router, http.MethodPost, "/api/auth/login", "", gin.H{"email": "jane@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[services.AuthResult](t, w)
	assert.NotEmpty(t, result.Token)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "session=")

	w = do(t, router, http.MethodPost, "/api/auth/login", "", gin.H{"email": "jane@example.com", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodPost, "/api/auth/register", "", gin.H{"name": "Jane", "email": "jane@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCampaignPropagationOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := register(t, router, "jane@example.com")

	listA := createList(t, router, token, "List A")
	listB := createList(t, router, token, "List B")

	w := do(t, router, http.MethodPost, "/api/customers", token, gin.H{
		"name": "Alice", "email": "alice@example.com", "customerListId": listA.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = upload(t, router, "/api/customer-lists/"+listB.ID.String()+"/upload-csv", token, "people.csv",
		[]byte("Name,Email,Phone,Status\nCarol,carol@example.com,555,ACTIVE\nBroken,nope,,\n"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	imported := decode[models.ImportResult](t, w)
	assert.Equal(t, 1, imported.ImportedCount)
	require.Len(t, imported.Errors, 1)
	assert.Equal(t, 2, imported.Errors[0].Row)

	w = do(t, router, http.MethodPost, "/api/campaigns", token, gin.H{
		"name":            "Spring",
		"customerListIds": []uuid.UUID{listA.ID, listB.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	campaign := decode[models.CampaignDetail](t, w)
	assert.Equal(t, models.StatusInactive, campaign.Status)
	assert.Len(t, campaign.CustomerLists, 2)

	w = do(t, router, http.MethodGet, "/api/campaigns/"+campaign.ID.String()+"/customers", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Customer](t, w), 2)

	w = do(t, router, http.MethodPut, "/api/campaigns/"+campaign.ID.String(), token, gin.H{
		"customerListIds": []uuid.UUID{listA.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/campaigns/"+campaign.ID.String()+"/customers", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	customers := decode[[]models.Customer](t, w)
	require.Len(t, customers, 1)
	assert.Equal(t, "Alice", customers[0].Name)

	w = do(t, router, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[models.DashboardStats](t, w)
	assert.Equal(t, 2, stats.CustomerLists)
	assert.Equal(t, 2, stats.Customers)

	w = do(t, router, http.MethodDelete, "/api/campaigns/"+campaign.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCampaignErrors(t *testing.T) {
	router := newTestRouter(t)
	token := register(t, router, "jane@example.com")
	otherToken := register(t, router, "other@example.com")
	foreign := createList(t, router, otherToken, "Theirs")

	w := do(t, router, http.MethodPost, "/api/campaigns", token, gin.H{"name": "Spring", "customerListIds": []string{}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[struct {
		Message string              `json:"message"`
		Errors  []models.FieldError `json:"errors"`
	}](t, w)
	assert.Equal(t, "Validation error", body.Message)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "customerListIds", body.Errors[0].Field)

	w = do(t, router, http.MethodPost, "/api/campaigns", token, gin.H{"name": "Spring", "customerListIds": []uuid.UUID{foreign.ID}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), foreign.ID.String())

	w = do(t, router, http.MethodGet, "/api/campaigns/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPost, "/api/campaigns", token, "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomerListConflictAndIsolation(t *testing.T) {
	router := newTestRouter(t)
	token := register(t, router, "jane@example.com")
	otherToken := register(t, router, "other@example.com")
	list := createList(t, router, token, "VIP")

	w := do(t, router, http.MethodPost, "/api/customer-lists", otherToken, gin.H{"name": "VIP"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, router, http.MethodGet, "/api/customer-lists/"+list.ID.String(), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodGet, "/api/customer-lists", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, router, http.MethodDelete, "/api/customer-lists/"+list.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUploadRejections(t *testing.T) {
	router := newTestRouter(t)
	token := register(t, router, "jane@example.com")
	list := createList(t, router, token, "Uploads")
	path := "/api/customer-lists/" + list.ID.String() + "/upload-csv"

	w := upload(t, router, path, token, "notes.txt", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Only CSV or XLSX files are allowed")

	w = upload(t, router, path, token, "bad.csv", []byte("name,email\nBroken,nope\n"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	rejected := decode[struct {
		Message string            `json:"message"`
		Errors  []models.RowError `json:"errors"`
	}](t, w)
	assert.Equal(t, "No valid records found in file", rejected.Message)
	require.Len(t, rejected.Errors, 1)
	assert.Equal(t, 1, rejected.Errors[0].Row)

	w = upload(t, router, path, token, "huge.csv", bytes.Repeat([]byte("a"), testUploadLimit+1))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req, _ := http.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No file uploaded")

	w = upload(t, router, "/api/customer-lists/"+uuid.NewString()+"/upload-csv", token, "people.csv", []byte("name,email\nA,a@example.com\n"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportCustomerList(t *testing.T) {
	router := newTestRouter(t)
	token := register(t, router, "jane@example.com")
	list := createList(t, router, token, "Spring Leads")

	w := upload(t, router, "/api/customer-lists/"+list.ID.String()+"/upload-csv", token, "people.csv",
		[]byte("name,email\nAlice,alice@example.com\nBob,bob@example.com\n"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/customer-lists/"+list.ID.String()+"/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Spring_Leads.xlsx")

	parsed, err := importer.ParseXLSX(w.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, parsed.Records, 2)
	assert.Empty(t, parsed.Errors)
}

func TestProfile(t *testing.T) {
	router := newTestRouter(t)
	token := register(t, router, "jane@example.com")

	w := do(t, router, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jane@example.com", decode[models.User](t, w).Email)

	w = do(t, router, http.MethodPut, "/api/profile", token, gin.H{
		"currentPassword": "secret1",
		"newPassword":     "secret2",
		"confirmPassword": "different",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Passwords don't match")

	w = do(t, router, http.MethodPut, "/api/profile", token, gin.H{"name": "Janet", "currentPassword": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Janet", decode[models.User](t, w).Name)
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Route not found")
}
