package pages

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/autobase/webfront/internal/domain/models"
	"github.com/autobase/webfront/pkg/clients/dealership"
)

// SalesOrderAPI is the backend surface of the sales order assignment page.
type SalesOrderAPI interface {
	Employees(ctx context.Context) ([]models.Employee, error)
	SalesOrders(ctx context.Context) ([]models.SalesOrder, error)
	AssignSalesOrder(ctx context.Context, employeeID, orderID string) (string, error)
}

// OrderFilter narrows the order list. Customer matches a substring of the
// customer name (case-insensitive) or id; OrderID a substring of the order id.
type OrderFilter struct {
	Customer string
	OrderID  string
}

// Active reports whether any filter is set.
func (f OrderFilter) Active() bool {
	return strings.TrimSpace(f.Customer) != "" || strings.TrimSpace(f.OrderID) != ""
}

// SalesOrders lets staff assign sales employees to orders.
type SalesOrders struct {
	api SalesOrderAPI

	Orders    []models.SalesOrder
	Employees []models.Employee
	Error     string

	directory map[int64]models.Employee
}

// NewSalesOrders builds the page.
func NewSalesOrders(api SalesOrderAPI) *SalesOrders {
	return &SalesOrders{api: api}
}

// Load fetches employees and orders together. Either failure fails the load
// and leaves the previous lists in place.
func (p *SalesOrders) Load(ctx context.Context) error {
	var (
		employees []models.Employee
		orders    []models.SalesOrder
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = p.api.Employees(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = p.api.SalesOrders(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		p.Error = "Failed to load: " + dealership.Message(err, "request failed")
		return err
	}

	p.Employees = employees
	p.Orders = orders
	p.directory = models.EmployeeDirectory(employees)
	p.Error = ""
	return nil
}

// View returns the loaded orders matching f.
func (p *SalesOrders) View(f OrderFilter) []models.SalesOrder {
	customer := strings.TrimSpace(f.Customer)
	orderID := strings.TrimSpace(f.OrderID)

	out := make([]models.SalesOrder, 0, len(p.Orders))
	for _, o := range p.Orders {
		matchCustomer := customer == "" ||
			containsFold(o.CustomerName, customer) ||
			strings.Contains(o.CustomerID.String(), customer)
		matchID := orderID == "" || strings.Contains(o.ID.String(), orderID)
		if matchCustomer && matchID {
			out = append(out, o)
		}
	}
	return out
}

// EmployeeLabel names the employee assigned to o.
func (p *SalesOrders) EmployeeLabel(o models.SalesOrder) string {
	return o.EmployeeLabel(p.directory)
}

// Assign makes employeeID the sales employee of orderID. The caller reloads
// the list afterwards.
func (p *SalesOrders) Assign(ctx context.Context, employeeID, orderID string) (string, error) {
	employeeID = strings.TrimSpace(employeeID)
	orderID = strings.TrimSpace(orderID)
	if employeeID == "" || orderID == "" {
		return "", invalid("Please select an employee and order.")
	}

	if _, err := p.api.AssignSalesOrder(ctx, employeeID, orderID); err != nil {
		return "", err
	}
	return "Employee assigned successfully!", nil
}
