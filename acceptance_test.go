package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/realtime"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/services"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

// WorkflowAcceptanceTestSuite drives one order from sign-in to invoice over
// a real HTTP server
type WorkflowAcceptanceTestSuite struct {
	suite.Suite
	app    *testServer
	server *httptest.Server
}

func (s *WorkflowAcceptanceTestSuite) SetupSuite() {
	s.app = newTestServer(s.T(), services.NewLocalStore(s.T().TempDir()), stubUserInfo{
		"admin-sub": testAdminEmail,
		"lead-sub":  "lead@example.com",
	})
	s.server = httptest.NewServer(s.app.router)
}

func (s *WorkflowAcceptanceTestSuite) TearDownSuite() {
	s.server.Close()
}

// request sends body as JSON on behalf of uid and decodes the envelope
func (s *WorkflowAcceptanceTestSuite) request(method, path, uid string, body interface{}) (int, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+uid)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var envelope map[string]interface{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

func (s *WorkflowAcceptanceTestSuite) dialEvents(uid string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/api/v1/ws"
	header := http.Header{"Authorization": []string{"Bearer " + uid}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusSwitchingProtocols, resp.StatusCode)
	s.Require().Eventually(func() bool { return s.app.hub.Len() == 1 }, time.Second, 10*time.Millisecond)
	return conn
}

func data(envelope map[string]interface{}) map[string]interface{} {
	return envelope["data"].(map[string]interface{})
}

func (s *WorkflowAcceptanceTestSuite) TestOrderLifecycle() {
	// The owner's email becomes an active admin on first sign-in
	status, body := s.request(http.MethodPost, "/api/v1/users/me", "admin-sub", nil)
	s.Require().Equal(http.StatusCreated, status, body)
	s.Equal("Admin", data(body)["role"])
	s.Equal("Active", data(body)["status"])

	// Anyone else waits for approval
	status, body = s.request(http.MethodPost, "/api/v1/users/me", "lead-sub", nil)
	s.Require().Equal(http.StatusCreated, status, body)
	s.Equal("Pending", data(body)["status"])

	status, _ = s.request(http.MethodGet, "/api/v1/dashboard", "lead-sub", nil)
	s.Equal(http.StatusForbidden, status)

	status, body = s.request(http.MethodPatch, "/api/v1/users/lead-sub", "admin-sub", map[string]string{
		"role":   "TeamLead",
		"status": "Active",
	})
	s.Require().Equal(http.StatusOK, status, body)

	status, body = s.request(http.MethodGet, "/api/v1/users/me/access", "lead-sub", nil)
	s.Require().Equal(http.StatusOK, status, body)
	s.Contains(data(body)["tabs"], "transport")
	s.NotContains(data(body)["tabs"], "users")

	// The lead takes in an order
	status, body = s.request(http.MethodPost, "/api/v1/orders", "lead-sub", map[string]interface{}{
		"title":         "Dining set",
		"customer":      map[string]string{"name": "Jan de Vries", "address": "Dorpsstraat 1, Utrecht", "phone": "06-12345678"},
		"furniture":     []map[string]interface{}{{"type": "Chair", "price": 150}, {"type": "Table", "price": 400}},
		"pickup_date":   "2025-03-10",
		"delivery_cost": 35,
	})
	s.Require().Equal(http.StatusCreated, status, body)
	order := data(body)
	number := order["order_number"].(string)
	s.Equal("20250075", number)

	conn := s.dialEvents("lead-sub")
	defer conn.Close()

	// Both items travel through every department
	departments := []string{"Disassembly", "Sandblasting M1", "Sanding M1", "Spraying", "Assembly", "Delivery"}
	for i, raw := range order["furniture"].([]interface{}) {
		itemID := raw.(map[string]interface{})["id"].(string)
		for _, dept := range departments {
			status, body = s.request(http.MethodPut, "/api/v1/orders/"+number+"/furniture/"+itemID+"/department", "lead-sub",
				map[string]string{"department": dept})
			s.Require().Equal(http.StatusOK, status, body)
		}
		// only the last item completes the order
		s.Equal(i == 1, data(body)["ready_for_delivery"])
	}

	var ev realtime.Event
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	s.Require().NoError(conn.ReadJSON(&ev))
	s.Equal(realtime.EventDepartmentChanged, ev.Type)
	s.Equal(number, ev.OrderNumber)

	status, body = s.request(http.MethodGet, "/api/v1/transport/ready", "lead-sub", nil)
	s.Require().Equal(http.StatusOK, status, body)
	s.Len(body["data"], 1)

	// Plan the delivery and leave a note for the driver
	status, body = s.request(http.MethodPut, "/api/v1/orders/"+number+"/delivery", "lead-sub", map[string]string{
		"date": "2025-03-12",
		"time": "09:00",
	})
	s.Require().Equal(http.StatusOK, status, body)

	status, body = s.request(http.MethodPost, "/api/v1/orders/"+number+"/notes", "lead-sub", map[string]string{
		"stop": "delivery",
		"text": "Bel aan bij de buren",
	})
	s.Require().Equal(http.StatusCreated, status, body)

	status, body = s.request(http.MethodGet, "/api/v1/transport/day?date=2025-03-12", "lead-sub", nil)
	s.Require().Equal(http.StatusOK, status, body)
	stops := data(body)["stops"].([]interface{})
	s.Require().Len(stops, 1)
	stop := stops[0].(map[string]interface{})
	s.Equal("delivery", stop["type"])
	s.Len(stop["notes"], 1)
	s.Len(data(body)["loading_list"], 2)

	// Finalizing the invoice completes the order
	status, body = s.request(http.MethodPost, "/api/v1/orders/"+number+"/invoice", "lead-sub", nil)
	s.Require().Equal(http.StatusOK, status, body)
	s.Equal(585.0, data(body)["total"])
	s.Equal("Completed", data(body)["status"])

	status, body = s.request(http.MethodGet, "/api/v1/orders?status=Completed", "lead-sub", nil)
	s.Require().Equal(http.StatusOK, status, body)
	s.Len(body["data"], 1)

	status, body = s.request(http.MethodGet, "/api/v1/transport/ready", "lead-sub", nil)
	s.Require().Equal(http.StatusOK, status, body)
	s.Empty(body["data"])
}

func TestWorkflowAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowAcceptanceTestSuite))
}
