package dealership

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobase/webfront/internal/config"
	"github.com/autobase/webfront/internal/domain/models"
)

func testServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.BackendConfig{
		BaseURL:       srv.URL,
		Timeout:       5 * time.Second,
		SessionCookie: "session",
	}, nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func browserCookie() *http.Cookie {
	return &http.Cookie{Name: "session", Value: "abc123"}
}

func TestBuyVehicle_PostsPriceWithSessionCookie(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/vehicle/vehicles/buy/1HGCM82633A004352", r.URL.Path)

		ck, err := r.Cookie("session")
		require.NoError(t, err)
		assert.Equal(t, "abc123", ck.Value)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"price":19999}`, string(body))

		writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle purchased successfully!"})
	})

	msg, err := client.Session(browserCookie()).BuyVehicle(context.Background(), "1HGCM82633A004352", 19999)
	require.NoError(t, err)
	assert.Equal(t, "Vehicle purchased successfully!", msg)
}

func TestAssignSalesOrder_PathAndBody(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/employee/sales_orders/assign/7/42", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"employee_id":"7"}`, string(body))

		writeJSON(w, http.StatusOK, map[string]string{"message": "Employee assigned successfully"})
	})

	_, err := client.Session(browserCookie()).AssignSalesOrder(context.Background(), "7", "42")
	require.NoError(t, err)
}

func TestCurrentUser_NullUserIsNil(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user": nil})
	})

	user, err := client.Session().CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCurrentUser_Decodes(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{"username": "jo", "user_type": "employee", "id": 7}})
	})

	user, err := client.Session(browserCookie()).CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, models.RoleEmployee, user.Role)
	assert.Equal(t, int64(7), user.ID.Value)
}

func TestErrors_ServerMessageAndFallback(t *testing.T) {
	t.Run("server message is kept verbatim", func(t *testing.T) {
		client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Vehicle not available for purchase"})
		})

		_, err := client.Session(browserCookie()).BuyVehicle(context.Background(), "VIN1", 100)
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
		assert.Equal(t, "Vehicle not available for purchase", Message(err, "generic"))
	})

	t.Run("missing message falls back", func(t *testing.T) {
		client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("<h1>boom</h1>"))
		})

		_, err := client.Session(browserCookie()).AvailableVehicles(context.Background())
		require.Error(t, err)
		assert.Equal(t, "Unable to load vehicles.", Message(err, "generic"))
	})

	t.Run("transport failure uses caller fallback", func(t *testing.T) {
		client := NewClient(config.BackendConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second, SessionCookie: "session"}, nil)

		_, err := client.Session().AvailableVehicles(context.Background())
		require.Error(t, err)
		assert.False(t, IsUnauthorized(err))
		assert.Equal(t, "Unable to load vehicles.", Message(err, "Unable to load vehicles."))
	})
}

func TestIsUnauthorized(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, status, map[string]string{"error": "Unauthorized"})
		})

		_, err := client.Session().CustomerVehicles(context.Background())
		assert.True(t, IsUnauthorized(err), "status %d", status)
	}
	assert.False(t, IsUnauthorized(errors.New("other")))
}

func TestLogin_ReturnsUserAndSessionCookie(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)
		assert.Equal(t, models.RoleCustomer, req.UserType)

		http.SetCookie(w, &http.Cookie{Name: "session", Value: "signed", Path: "/", HttpOnly: true})
		http.SetCookie(w, &http.Cookie{Name: "other", Value: "x"})
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Login successful",
			"user":    map[string]any{"username": "alice", "user_type": "customer", "id": 3},
		})
	})

	res, err := client.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "pw", UserType: models.RoleCustomer})
	require.NoError(t, err)
	assert.Equal(t, "alice", res.User.Username)
	require.Len(t, res.Cookies, 1)
	assert.Equal(t, "signed", res.Cookies[0].Value)
}

func TestClient_DoesNotShareCookiesBetweenSessions(t *testing.T) {
	var seen []string
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("session"); err == nil {
			seen = append(seen, ck.Value)
		} else {
			seen = append(seen, "")
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "leaked", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{"user": nil})
	})

	_, err := client.Session(browserCookie()).CurrentUser(context.Background())
	require.NoError(t, err)
	_, err = client.Session().CurrentUser(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"abc123", ""}, seen)
}

func TestEmployees_NotFoundIsEmpty(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Employees not found"})
	})

	employees, err := client.Session(browserCookie()).Employees(context.Background())
	require.NoError(t, err)
	assert.Empty(t, employees)
}

func TestAvailableVehicles_DecimalStrings(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/vehicle/vehicles", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"vehicle": []map[string]any{
			{"VIN": "V1", "Make": "Honda", "Model": "Accord", "Year": 2019, "Color": "Blue", "Mileage": 1200, "Price": "19999.00"},
		}})
	})

	vehicles, err := client.Session().AvailableVehicles(context.Background())
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, 19999.0, vehicles[0].Price.Float64())
	assert.Equal(t, int64(2019), vehicles[0].Year.Value)
}

func TestPartsUsage_Threshold(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/manager/parts/usage", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("threshold"))
		writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{
			{"ID": 1, "Name": "Filter", "Price": "9.99", "Stock": 2, "times_used": "14"},
		}})
	})

	threshold := 3
	parts, err := client.Session(browserCookie()).PartsUsage(context.Background(), &threshold)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, int64(14), parts[0].TimesUsed.Value)
}

func TestReports_Rows(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/manager/reports/employee-performance", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{
			{"Employee ID": 4, "Employee Name": "Jo", "Vehicle Sold": 3, "Seattle Customers": 1},
		}})
	})

	rows, err := client.Session(browserCookie()).EmployeePerformanceReport(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Jo", rows[0]["Employee Name"])
}
