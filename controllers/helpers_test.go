package controllers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/config"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/middleware"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/policy"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/realtime"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/services"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testPNG = append([]byte("\x89PNG\r\n\x1a\n"), []byte("fake png content")...)

func pngDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG)
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// mockAuthMiddleware stands in for EnsureValidToken
var mockAuthMiddleware = testutil.MockAuthMiddleware

// testApp wires every service over one in-memory database
type testApp struct {
	db            *gorm.DB
	hub           *realtime.Hub
	policy        *policy.Policy
	store         *services.LocalStore
	orders        *services.OrderService
	users         *services.UserService
	notes         *services.NoteService
	organizations *services.OrganizationService
	supervisors   *services.SupervisorService
	invoices      *services.InvoiceService
	customers     *services.CustomerService
	transport     *services.TransportService
}

func newTestApp(t *testing.T) *testApp {
	db := setupTestDB(t)
	log := zap.NewNop()
	hub := realtime.NewHub(log)
	t.Cleanup(hub.Close)

	store := services.NewLocalStore(t.TempDir())
	images := services.NewImageService(store)
	counter := services.NewCounterService(db, 100)
	require.NoError(t, counter.Ensure(t.Context(), services.OrderCounter))

	orders := services.NewOrderService(db, counter, images, hub, log)
	orders.SetLocation(time.UTC)
	pol := policy.New(policy.UnassignedNone)

	return &testApp{
		db:            db,
		hub:           hub,
		policy:        pol,
		store:         store,
		orders:        orders,
		users:         services.NewUserService(db, pol, "owner@example.com", hub, log),
		notes:         services.NewNoteService(db, hub),
		organizations: services.NewOrganizationService(db, images, hub, log),
		supervisors:   services.NewSupervisorService(db, hub, log),
		invoices:      services.NewInvoiceService(orders, testCompany),
		customers:     services.NewCustomerService(orders),
		transport:     services.NewTransportService(db, orders),
	}
}

// as returns the middleware chain for a signed-in user with a loaded profile
func (a *testApp) as(uid string, extra ...gin.HandlerFunc) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{
		mockAuthMiddleware(uid, "mock-token"),
		middleware.LoadProfile(a.users, zap.NewNop()),
	}
	return append(chain, extra...)
}

func (a *testApp) createUser(t *testing.T, uid string, role models.Role) *models.User {
	user := &models.User{
		UID:    uid,
		Email:  uid + "@example.com",
		Role:   role,
		Status: models.UserStatusActive,
	}
	require.NoError(t, a.db.Create(user).Error)
	return user
}

func (a *testApp) createOrder(t *testing.T, items ...string) *models.Order {
	order, err := a.orders.Create(t.Context(), orderInput(items...))
	require.NoError(t, err)
	return order
}

func orderInput(items ...string) services.CreateOrderInput {
	if len(items) == 0 {
		items = []string{"Chair"}
	}
	input := services.CreateOrderInput{
		Title: "Restoration",
		Customer: services.CustomerInput{
			Name:    "Jan de Vries",
			Address: "Dorpsstraat 1, Utrecht",
			Phone:   "06-12345678",
			Email:   "jan@example.com",
		},
		PickupDate:   "2025-03-10",
		DeliveryCost: 25,
	}
	for _, name := range items {
		input.Furniture = append(input.Furniture, services.FurnitureInput{Type: name, Price: 100, Treatment: "Sandblast and spray"})
	}
	return input
}

var testCompany = config.CompanyInfo{Name: "Nieuwe Nostalgie", Address: "Rooijakkerstraat 14-6, 5652BB Eindhoven", IBAN: "NL28 RABO 0147 2504 98"}

// doRequest sends body as JSON (when not nil) and returns the recorder
func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	response := decodeResponse(t, w)
	errorData, ok := response["error"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	return errorData["code"].(string)
}

func responseData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	response := decodeResponse(t, w)
	require.True(t, response["success"].(bool), w.Body.String())
	return response["data"].(map[string]interface{})
}

func responseList(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	response := decodeResponse(t, w)
	require.True(t, response["success"].(bool), w.Body.String())
	return response["data"].([]interface{})
}
