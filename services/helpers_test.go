package services

import (
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/realtime"
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
	require.NoError(t, err, "Failed to connect to test database")

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "Failed to migrate test database")
	return db
}

// eventRecorder collects published events
type eventRecorder struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *eventRecorder) Publish(ev realtime.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *eventRecorder) count(t realtime.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

type testEnv struct {
	db      *gorm.DB
	store   *MockObjectStore
	events  *eventRecorder
	orders  *OrderService
	counter *CounterService
}

func newTestEnv(t *testing.T, seed int64) *testEnv {
	db := setupTestDB(t)
	store := NewMockObjectStore()
	events := &eventRecorder{}
	counter := NewCounterService(db, seed)
	orders := NewOrderService(db, counter, NewImageService(store), events, zap.NewNop())
	orders.location = time.UTC
	orders.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	return &testEnv{db: db, store: store, events: events, orders: orders, counter: counter}
}

func orderInput(items ...string) CreateOrderInput {
	if len(items) == 0 {
		items = []string{"Chair"}
	}
	input := CreateOrderInput{
		Title: "Restoration",
		Customer: CustomerInput{
			Name:    "Jan de Vries",
			Address: "Dorpsstraat 1, Utrecht",
			Phone:   "06-12345678",
			Email:   "jan@example.com",
		},
		PickupDate:   "2025-03-10",
		DeliveryCost: 25,
	}
	for _, name := range items {
		input.Furniture = append(input.Furniture, FurnitureInput{Type: name, Price: 100, Treatment: "Sandblast and spray"})
	}
	return input
}

func createTestUser(t *testing.T, db *gorm.DB, uid string, role models.Role) *models.User {
	user := &models.User{
		UID:    uid,
		Email:  uid + "@example.com",
		Role:   role,
		Status: models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
