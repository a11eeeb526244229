package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/autobase/webfront/internal/config"
	"github.com/autobase/webfront/internal/report"
	"github.com/autobase/webfront/internal/server/handlers"
	"github.com/autobase/webfront/internal/server/views"
	"github.com/autobase/webfront/pkg/clients/dealership"
)

// backend is a fake dealership API. The session cookie value names the
// signed-in role.
type backend struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string]string
}

var users = map[string]map[string]any{
	"cust": {"username": "alice", "user_type": "customer", "id": 3},
	"emp":  {"username": "jo", "user_type": "employee", "id": 7},
	"mgr":  {"username": "max", "user_type": "manager", "id": 1},
}

func (b *backend) count(request string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r == request {
			n++
		}
	}
	return n
}

func (b *backend) body(request string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[request]
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	request := r.Method + " " + r.URL.Path
	raw, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.requests = append(b.requests, request)
	if b.bodies == nil {
		b.bodies = map[string]string{}
	}
	b.bodies[request] = string(raw)
	b.mu.Unlock()

	var user map[string]any
	if ck, err := r.Cookie("session"); err == nil {
		user = users[ck.Value]
	}

	switch {
	case request == "POST /api/auth/login":
		var req struct {
			Username string `json:"username"`
			UserType string `json:"user_type"`
		}
		_ = json.Unmarshal(raw, &req)
		if req.Username == "nobody" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		value := map[string]string{"customer": "cust", "employee": "emp", "manager": "mgr"}[req.UserType]
		http.SetCookie(w, &http.Cookie{Name: "session", Value: value, Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{"message": "Login successful", "user": users[value]})

	case request == "POST /api/auth/logout":
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})

	case request == "GET /api/auth/current_user":
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Not logged in"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": user})

	case request == "GET /api/vehicle/vehicles":
		writeJSON(w, http.StatusOK, map[string]any{"vehicle": []map[string]any{
			{"VIN": "1HGCM82633A004352", "Make": "Honda", "Model": "Accord", "Year": 2019, "Color": "Blue", "Mileage": 12000, "Price": "19999.00"},
			{"VIN": "5YJ3E1EA7KF317000", "Make": "Tesla", "Model": "Model 3", "Year": 2021, "Color": "Red", "Mileage": 8000, "Price": 35000},
		}})

	case request == "GET /api/customer/vehicles":
		writeJSON(w, http.StatusOK, map[string]any{"vehicles": []map[string]any{
			{"VIN": "1HGCM82633A004352", "Make": "Honda", "Model": "Accord", "Year": 2019, "Color": "Blue", "Mileage": 12000, "Price": "19999.00"},
			{"VIN": "5YJ3E1EA7KF317000", "Make": "Tesla", "Model": "Model 3", "Year": 2021, "Color": "Red", "Mileage": 8000, "Price": 35000},
		}})

	case strings.HasPrefix(request, "POST /api/vehicle/vehicles/buy/"):
		writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle purchased successfully!"})

	case request == "GET /api/employee/employees":
		writeJSON(w, http.StatusOK, map[string]any{"employees": []map[string]any{
			{"ID": 7, "Name": "Sam Seller"},
		}})

	case request == "GET /api/employee/sales_orders":
		writeJSON(w, http.StatusOK, map[string]any{"sales_orders": []map[string]any{
			{"ID": 42, "Customer_ID": 3, "Customer_Name": "Ada Lovelace", "Vehicle_VIN": "1HGCM82633A004352", "Sales_Date": "Mon, 15 Jan 2024 00:00:00 GMT", "Price": "19999.00"},
		}})

	case strings.HasPrefix(request, "PUT /api/employee/sales_orders/assign/"):
		writeJSON(w, http.StatusOK, map[string]string{"message": "Employee assigned successfully"})

	case request == "GET /api/manager/reports/customer-vehicles":
		writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{
			{"Customer ID": 3, "Customer Name": "Ada Lovelace", "Vehicle Amount": 2, "Service Times": 5},
		}})

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestEngine(t *testing.T) (*gin.Engine, *backend) {
	t.Helper()

	api := &backend{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client := dealership.NewClient(config.BackendConfig{
		BaseURL:       srv.URL,
		Timeout:       5 * time.Second,
		SessionCookie: "session",
	}, nil)
	h := handlers.New(client, nil, handlers.Options{SessionSecret: "test-secret"}, nil)
	return New(h, views.Must(views.New()), nil), api
}

func serve(engine *gin.Engine, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func session(value string) *http.Cookie {
	return &http.Cookie{Name: "session", Value: value}
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestCustomerBuysVehicle(t *testing.T) {
	engine, api := newTestEngine(t)

	rec := serve(engine, http.MethodGet, "/vehicles", nil, session("cust"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, strings.Count(rec.Body.String(), "buyBtn"))
	assert.Contains(t, rec.Body.String(), "$19,999.00")

	form := url.Values{"price": {"19999"}}
	rec = serve(engine, http.MethodPost, "/vehicles/1HGCM82633A004352/buy", form, session("cust"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/vehicles", rec.Header().Get("Location"))
	assert.JSONEq(t, `{"price":19999}`, api.body("POST /api/vehicle/vehicles/buy/1HGCM82633A004352"))

	flash := responseCookie(rec, "autobase_flash")
	require.NotNil(t, flash)

	rec = serve(engine, http.MethodGet, "/vehicles", nil, session("cust"), flash)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Vehicle purchased successfully!")
	assert.Equal(t, 2, api.count("GET /api/vehicle/vehicles"), "list reloads after the purchase")
}

func TestVehiclesWithoutBuyForStaffAndVisitors(t *testing.T) {
	engine, api := newTestEngine(t)

	for _, cookies := range [][]*http.Cookie{{session("emp")}, nil} {
		rec := serve(engine, http.MethodGet, "/vehicles", nil, cookies...)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "buyBtn")
		assert.Contains(t, rec.Body.String(), "Accord")
	}
	assert.Equal(t, 1, api.count("GET /api/auth/current_user"), "anonymous visitors are not resolved")

	rec := serve(engine, http.MethodPost, "/vehicles/1HGCM82633A004352/buy", url.Values{"price": {"1"}}, session("emp"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Zero(t, api.count("POST /api/vehicle/vehicles/buy/1HGCM82633A004352"))
}

func TestCustomerVehiclesSearch(t *testing.T) {
	engine, api := newTestEngine(t)

	rec := serve(engine, http.MethodGet, "/customer/vehicles?q=zzz", nil, session("cust"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No Vehicles Found")
	assert.NotContains(t, rec.Body.String(), "Accord")

	rec = serve(engine, http.MethodGet, "/customer/vehicles", nil, session("cust"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "No Vehicles Found")
	require.Contains(t, body, "Accord")
	require.Contains(t, body, "Model 3")
	assert.Less(t, strings.Index(body, "Model 3"), strings.Index(body, "Accord"), "newest first by default")

	rec = serve(engine, http.MethodGet, "/customer/vehicles?q=HONDA", nil, session("cust"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Accord")
	assert.NotContains(t, rec.Body.String(), "Model 3")

	assert.Equal(t, 3, api.count("GET /api/customer/vehicles"))
}

func TestAssignSalesOrder(t *testing.T) {
	engine, api := newTestEngine(t)

	rec := serve(engine, http.MethodGet, "/employee/sales-orders", nil, session("emp"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ada Lovelace")
	assert.Contains(t, rec.Body.String(), "Sam Seller")

	form := url.Values{"employee_id": {"7"}, "order_id": {"42"}, "customer": {"ada"}}
	rec = serve(engine, http.MethodPost, "/employee/sales-orders/assign", form, session("emp"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/employee/sales-orders?customer=ada", rec.Header().Get("Location"))
	assert.Equal(t, 1, api.count("PUT /api/employee/sales_orders/assign/7/42"))
	assert.JSONEq(t, `{"employee_id":"7"}`, api.body("PUT /api/employee/sales_orders/assign/7/42"))

	rec = serve(engine, http.MethodGet, "/employee/sales-orders?customer=ada", nil, session("emp"), responseCookie(rec, "autobase_flash"))
	assert.Contains(t, rec.Body.String(), "Employee assigned successfully!")
}

func TestAssignSalesOrderRequiresSelection(t *testing.T) {
	engine, api := newTestEngine(t)

	rec := serve(engine, http.MethodPost, "/employee/sales-orders/assign", url.Values{"order_id": {"42"}}, session("mgr"))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = serve(engine, http.MethodGet, "/employee/sales-orders", nil, session("mgr"), responseCookie(rec, "autobase_flash"))
	assert.Contains(t, rec.Body.String(), "Please select an employee and order.")
	assert.Zero(t, api.count("PUT /api/employee/sales_orders/assign//42"))
}

func TestRoleGuardRedirectsToLogin(t *testing.T) {
	engine, _ := newTestEngine(t)

	for _, tc := range []struct {
		path   string
		cookie *http.Cookie
	}{
		{"/customer", session("emp")},
		{"/customer/vehicles", nil},
		{"/employee/tools", session("cust")},
		{"/manager", session("emp")},
		{"/orders/mine", nil},
	} {
		var cookies []*http.Cookie
		if tc.cookie != nil {
			cookies = append(cookies, tc.cookie)
		}
		rec := serve(engine, http.MethodGet, tc.path, nil, cookies...)
		require.Equal(t, http.StatusSeeOther, rec.Code, tc.path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), tc.path)

		rec = serve(engine, http.MethodGet, "/login", nil, responseCookie(rec, "autobase_flash"))
		assert.Contains(t, rec.Body.String(), "Unauthorized access.", tc.path)
	}
}

func TestLoginRelaysBackendCookie(t *testing.T) {
	engine, _ := newTestEngine(t)

	form := url.Values{"username": {"max"}, "password": {"secret"}, "role": {"manager"}}
	rec := serve(engine, http.MethodPost, "/login", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/manager", rec.Header().Get("Location"))

	ck := responseCookie(rec, "session")
	require.NotNil(t, ck)
	assert.Equal(t, "mgr", ck.Value)
	assert.True(t, ck.HttpOnly)
}

func TestLoginSendsPasswordUnchanged(t *testing.T) {
	engine, api := newTestEngine(t)

	form := url.Values{"username": {" max "}, "password": {" s3cret "}, "role": {"manager"}}
	rec := serve(engine, http.MethodPost, "/login", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.JSONEq(t, `{"username":"max","password":" s3cret ","user_type":"manager"}`, api.body("POST /api/auth/login"))
}

func TestLoginValidationAndFailure(t *testing.T) {
	engine, api := newTestEngine(t)

	rec := serve(engine, http.MethodPost, "/login", url.Values{"username": {"max"}, "password": {"secret"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please select a role.")
	assert.Zero(t, api.count("POST /api/auth/login"))

	rec = serve(engine, http.MethodPost, "/login", url.Values{"username": {"nobody"}, "password": {"x"}, "role": {"customer"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
	assert.Nil(t, responseCookie(rec, "session"))
}

func TestLogoutClearsCookie(t *testing.T) {
	engine, api := newTestEngine(t)

	rec := serve(engine, http.MethodPost, "/logout", nil, session("cust"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, 1, api.count("POST /api/auth/logout"))

	ck := responseCookie(rec, "session")
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
	assert.Negative(t, ck.MaxAge)
}

func TestExportReport(t *testing.T) {
	engine, _ := newTestEngine(t)

	rec := serve(engine, http.MethodGet, "/manager/reports/customer-vehicles.xlsx", nil, session("mgr"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "customer-vehicles.xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("customer-vehicles", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Customer ID", header)
	name, err := f.GetCellValue("customer-vehicles", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", name)
}

func TestHealthzAndRequestID(t *testing.T) {
	engine, _ := newTestEngine(t)

	rec := serve(engine, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}

func TestNotFound(t *testing.T) {
	engine, _ := newTestEngine(t)

	rec := serve(engine, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not exist")
}
