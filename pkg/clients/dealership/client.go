package dealership

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/autobase/webfront/internal/config"
	"github.com/autobase/webfront/internal/domain/models"
)

// Client talks to the dealership REST backend. It carries no credentials of
// its own; bind a browser's backend cookies with Session.
type Client struct {
	httpClient *resty.Client
	cookieName string
	logger     *zap.Logger
}

// NewClient builds a backend client from configuration.
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout).
		// One client serves every browser, so the backend's cookies must never
		// be remembered between requests.
		SetCookieJar(nil)

	return &Client{
		httpClient: restyClient,
		cookieName: cfg.SessionCookie,
		logger:     logger,
	}
}

// CookieName is the name of the backend session cookie relayed to browsers.
func (c *Client) CookieName() string {
	return c.cookieName
}

// Session binds the client to one browser's backend credentials.
func (c *Client) Session(cookies ...*http.Cookie) *Session {
	kept := make([]*http.Cookie, 0, len(cookies))
	for _, ck := range cookies {
		if ck != nil && ck.Value != "" {
			kept = append(kept, &http.Cookie{Name: ck.Name, Value: ck.Value})
		}
	}
	return &Session{client: c, cookies: kept}
}

// LoginResult is a successful login: the user and the cookies the browser
// must store to stay signed in.
type LoginResult struct {
	Message string
	User    models.User
	Cookies []*http.Cookie
}

// Login authenticates against the backend.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	var out struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}
	resp, err := c.Session().do(ctx, http.MethodPost, "/api/auth/login", "login", "Login failed", req, &out)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Message: out.Message,
		User:    out.User,
		Cookies: c.sessionCookies(resp),
	}, nil
}

func (c *Client) sessionCookies(resp *resty.Response) []*http.Cookie {
	var out []*http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == c.cookieName {
			out = append(out, ck)
		}
	}
	return out
}

// Session is a Client bound to one browser's backend session cookies. It is
// cheap to build and meant to live for a single page request.
type Session struct {
	client  *Client
	cookies []*http.Cookie
}

// Anonymous reports whether the session carries no credentials at all.
func (s *Session) Anonymous() bool {
	return len(s.cookies) == 0
}

// APIError is a non-2xx answer from the backend. Message is the server's
// error text, or a generic description of the failed call when it sent none.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 or 403 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Message returns the text to show a user for err: the backend's message for
// API errors and fallback for everything else, transport failures included.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Session) do(ctx context.Context, method, path, op, fallback string, body, out any) (*resty.Response, error) {
	apiErr := new(errorBody)

	req := s.client.httpClient.R().
		SetContext(ctx).
		SetCookies(s.cookies).
		SetError(apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := strings.TrimSpace(apiErr.Error)
		if message == "" {
			message = fallback
		}
		s.client.logger.Debug("backend call failed",
			zap.String("op", op),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()),
			zap.String("message", message),
		)
		return resp, &APIError{Op: op, Status: resp.StatusCode(), Message: message}
	}

	return resp, nil
}

// Logout ends the backend session and returns the cookies the backend reset.
func (s *Session) Logout(ctx context.Context) ([]*http.Cookie, error) {
	resp, err := s.do(ctx, http.MethodPost, "/api/auth/logout", "logout", "Logout failed", nil, nil)
	if err != nil {
		return nil, err
	}
	return s.client.sessionCookies(resp), nil
}

// CurrentUser returns the signed-in user, or nil when the backend reports no
// session.
func (s *Session) CurrentUser(ctx context.Context) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	if _, err := s.do(ctx, http.MethodGet, "/api/auth/current_user", "fetch current user", "Failed to fetch current user", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// AvailableVehicles lists vehicles nobody owns yet.
func (s *Session) AvailableVehicles(ctx context.Context) ([]models.Vehicle, error) {
	var out struct {
		Vehicles []models.Vehicle `json:"vehicle"`
	}
	if _, err := s.do(ctx, http.MethodGet, "/api/vehicle/vehicles", "list available vehicles", "Unable to load vehicles.", nil, &out); err != nil {
		return nil, err
	}
	return out.Vehicles, nil
}

// BuyVehicle purchases a vehicle for the signed-in customer.
func (s *Session) BuyVehicle(ctx context.Context, vin string, price float64) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	path := "/api/vehicle/vehicles/buy/" + url.PathEscape(vin)
	if _, err := s.do(ctx, http.MethodPost, path, "buy vehicle", "Purchase failed", models.PurchaseRequest{Price: price}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// CustomerVehicles lists vehicles the signed-in customer owns.
func (s *Session) CustomerVehicles(ctx context.Context) ([]models.Vehicle, error) {
	var out struct {
		Vehicles []models.Vehicle `json:"vehicles"`
	}
	if _, err := s.do(ctx, http.MethodGet, "/api/customer/vehicles", "list customer vehicles", "Failed to load vehicles", nil, &out); err != nil {
		return nil, err
	}
	return out.Vehicles, nil
}

// CustomerVehicle fetches one vehicle owned by the signed-in customer.
func (s *Session) CustomerVehicle(ctx context.Context, vin string) (*models.Vehicle, error) {
	var out struct {
		Vehicle *models.Vehicle `json:"vehicle"`
	}
	path := "/api/customer/vehicle/" + url.PathEscape(vin)
	if _, err := s.do(ctx, http.MethodGet, path, "fetch customer vehicle", "Failed to load vehicle details", nil, &out); err != nil {
		return nil, err
	}
	if out.Vehicle == nil {
		return nil, &APIError{Op: "fetch customer vehicle", Status: http.StatusNotFound, Message: "Vehicle not found"}
	}
	return out.Vehicle, nil
}

// CustomerInfo returns the signed-in customer's contact record.
func (s *Session) CustomerInfo(ctx context.Context) (models.Record, error) {
	var out struct {
		Customer models.Record `json:"customer"`
	}
	if _, err := s.do(ctx, http.MethodGet, "/api/customer/info", "fetch customer info", "Failed to load customer information", nil, &out); err != nil {
		return models.Record{}, err
	}
	return out.Customer, nil
}

// UpdateCustomerInfo saves the editable contact fields and returns the stored
// record.
func (s *Session) UpdateCustomerInfo(ctx context.Context, update models.CustomerUpdate) (models.Record, error) {
	var out struct {
		Customer models.Record `json:"customer"`
	}
	if _, err := s.do(ctx, http.MethodPut, "/api/customer/info", "update customer info", "Failed to update customer info", update, &out); err != nil {
		return models.Record{}, err
	}
	return out.Customer, nil
}

// CustomerSalesOrders lists the signed-in customer's purchases.
func (s *Session) CustomerSalesOrders(ctx context.Context) ([]models.SalesOrder, error) {
	var out struct {
		Orders []models.SalesOrder `json:"sales_orders"`
	}
	if _, err := s.do(ctx, http.MethodGet, "/api/customer/my_sales_orders", "list customer sales orders", "Failed to load purchase records", nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// CustomerServiceRecords lists the signed-in customer's service history.
func (s *Session) CustomerServiceRecords(ctx context.Context) ([]models.ServiceRecord, error) {
	var out struct {
		Records []models.ServiceRecord `json:"service_orders"`
	}
	if _, err := s.do(ctx, http.MethodGet, "/api/customer/my_service_records", "list service records", "Failed to load service records", nil, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

// VehiclesDueService lists customer vehicles with no service in the past year.
func (s *Session) VehiclesDueService(ctx context.Context) ([]models.DueVehicle, error) {
	var out struct {
		Vehicles []models.DueVehicle `json:"due_vehicles"`
	}
	if _, err := s.do(ctx, http.MethodGet, "/api/customer/vehicles_due_service", "list vehicles due service", "Failed to check service reminders", nil, &out); err != nil {
		return nil, err
	}
	return out.Vehicles, nil
}

// CustomerEmployee fetches the employee handling one of the customer's orders.
func (s *Session) CustomerEmployee(ctx context.Context, id string) (models.Record, error) {
	var out struct {
		Employee models.Record `json:"employee"`
	}
	path := "/api/customer/employee/" + url.PathEscape(id)
	if _, err := s.do(ctx, http.MethodGet, path, "fetch employee", "Failed to load employee details", nil, &out); err != nil {
		return models.Record{}, err
	}
	return out.Employee, nil
}

// Employees lists all employees. The backend answers 404 for an empty table,
// which is reported as an empty list.
func (s *Session) Employees(ctx context.Context) ([]models.Employee, error) {
	var out struct {
		Employees []models.Employee `json:"employees"`
	}
	if _, err := s.do(ctx, http.MethodGet, "/api/employee/employees", "list employees", "Failed to load employees", nil, &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return out.Employees, nil
}

// SalesOrders lists every sales order with customer and employee names. A 404
// means there are none.
func (s *Session) SalesOrders(ctx context.Context) ([]models.SalesOrder, error) {
	var out struct {
		Orders []models.SalesOrder `json:"sales_orders"`
	}
	if _, err := s.do(ctx, http.MethodGet, "/api/employee/sales_orders", "list sales orders", "Failed to load sales orders", nil, &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return out.Orders, nil
}

// EmployeeSalesOrders lists orders assigned to the signed-in employee.
func (s *Session) EmployeeSalesOrders(ctx context.Context) ([]models.SalesOrder, error) {
	var out struct {
		Orders []models.SalesOrder `json:"sales_orders"`
	}
	if _, err := s.do(ctx, http.MethodGet, "/api/employee/my_sales_orders", "list employee sales orders", "Failed to load sales orders", nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// AssignSalesOrder makes employeeID the sales employee of orderID.
func (s *Session) AssignSalesOrder(ctx context.Context, employeeID, orderID string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	path := fmt.Sprintf("/api/employee/sales_orders/assign/%s/%s", url.PathEscape(employeeID), url.PathEscape(orderID))
	body := models.AssignRequest{EmployeeID: employeeID}
	if _, err := s.do(ctx, http.MethodPut, path, "assign sales order", "Failed to assign employee", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// EmployeeVehicle fetches any vehicle by VIN for staff.
func (s *Session) EmployeeVehicle(ctx context.Context, vin string) (*models.Vehicle, error) {
	var out struct {
		Vehicle *models.Vehicle `json:"vehicle"`
	}
	path := "/api/employee/vehicle/" + url.PathEscape(vin)
	if _, err := s.do(ctx, http.MethodGet, path, "fetch vehicle", "Failed to load vehicle details", nil, &out); err != nil {
		return nil, err
	}
	if out.Vehicle == nil {
		return nil, &APIError{Op: "fetch vehicle", Status: http.StatusNotFound, Message: "Vehicle not found"}
	}
	return out.Vehicle, nil
}

// EmployeeCustomer fetches a customer's contact record for staff.
func (s *Session) EmployeeCustomer(ctx context.Context, id string) (models.Record, error) {
	var out struct {
		Customer models.Record `json:"customer"`
	}
	path := "/api/employee/customer/" + url.PathEscape(id)
	if _, err := s.do(ctx, http.MethodGet, path, "fetch customer", "Failed to load customer details", nil, &out); err != nil {
		return models.Record{}, err
	}
	return out.Customer, nil
}

// SalesByVehicle lists sales of one vehicle.
func (s *Session) SalesByVehicle(ctx context.Context, vin string) ([]models.Row, error) {
	return s.rows(ctx, "/api/employee/sales/vehicle/"+url.PathEscape(vin), "sales_orders", "lookup sales by vehicle", "Failed to fetch sales for vehicle")
}

// SalesByCustomer lists sales to one customer.
func (s *Session) SalesByCustomer(ctx context.Context, customerID string) ([]models.Row, error) {
	return s.rows(ctx, "/api/employee/sales/customer/"+url.PathEscape(customerID), "sales_orders", "lookup sales by customer", "Failed to fetch sales for customer")
}

// ServiceByVehicle lists service lines of one vehicle.
func (s *Session) ServiceByVehicle(ctx context.Context, vin string) ([]models.Row, error) {
	return s.rows(ctx, "/api/employee/service/vehicle/"+url.PathEscape(vin), "service_orders", "lookup service by vehicle", "Failed to fetch service for vehicle")
}

// ServiceByCustomer lists service lines of one customer's vehicles.
func (s *Session) ServiceByCustomer(ctx context.Context, customerID string) ([]models.Row, error) {
	return s.rows(ctx, "/api/employee/service/customer/"+url.PathEscape(customerID), "service_orders", "lookup service by customer", "Failed to fetch service for customer")
}

// ReportShortage lists parts whose stock is at or below threshold.
func (s *Session) ReportShortage(ctx context.Context, threshold int) (*models.ShortageReport, error) {
	out := new(models.ShortageReport)
	body := models.ShortageRequest{Threshold: threshold}
	if _, err := s.do(ctx, http.MethodPost, "/api/employee/parts/report_shortage", "report part shortage", "Failed to generate shortage report", body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SalesAggregate totals sales grouped by date or employee.
func (s *Session) SalesAggregate(ctx context.Context, by models.AggregateBy) ([]models.SalesAggregate, error) {
	var out struct {
		Data []models.SalesAggregate `json:"data"`
	}
	path := "/api/manager/sales/aggregate?by=" + url.QueryEscape(string(by))
	if _, err := s.do(ctx, http.MethodGet, path, "aggregate sales", "Failed to aggregate sales data", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ServiceSummary totals service revenue, labor and parts grouped by date or
// employee.
func (s *Session) ServiceSummary(ctx context.Context, by models.AggregateBy) ([]models.ServiceSummary, error) {
	var out struct {
		Data []models.ServiceSummary `json:"data"`
	}
	path := "/api/manager/service/summary?by=" + url.QueryEscape(string(by))
	if _, err := s.do(ctx, http.MethodGet, path, "summarize service", "Failed to aggregate service data", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// PartsUsage lists parts with usage counts, optionally only those with stock at
// or below threshold.
func (s *Session) PartsUsage(ctx context.Context, threshold *int) ([]models.PartUsage, error) {
	var out struct {
		Data []models.PartUsage `json:"data"`
	}
	path := "/api/manager/parts/usage"
	if threshold != nil {
		path += "?threshold=" + strconv.Itoa(*threshold)
	}
	if _, err := s.do(ctx, http.MethodGet, path, "fetch parts usage", "Failed to fetch parts usage", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CustomerVehiclesReport counts vehicles and service visits per customer.
func (s *Session) CustomerVehiclesReport(ctx context.Context) ([]models.Row, error) {
	return s.rows(ctx, "/api/manager/reports/customer-vehicles", "data", "customer vehicles report", "Failed to generate customer vehicles report")
}

// WaitingVehiclesReport lists vehicles waiting on out-of-stock parts.
func (s *Session) WaitingVehiclesReport(ctx context.Context) ([]models.Row, error) {
	return s.rows(ctx, "/api/manager/reports/waiting-vehicles", "data", "waiting vehicles report", "Failed to generate waiting vehicles report")
}

// EmployeePerformanceReport lists vehicles sold and customers served per
// employee.
func (s *Session) EmployeePerformanceReport(ctx context.Context) ([]models.Row, error) {
	return s.rows(ctx, "/api/manager/reports/employee-performance", "data", "employee performance report", "Failed to generate employee performance report")
}

func (s *Session) rows(ctx context.Context, path, key, op, fallback string) ([]models.Row, error) {
	out := map[string][]models.Row{}
	if _, err := s.do(ctx, http.MethodGet, path, op, fallback, nil, &out); err != nil {
		return nil, err
	}
	return out[key], nil
}
