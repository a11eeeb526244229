package pages

import (
	"context"
	"strings"

	"github.com/autobase/webfront/internal/domain/models"
	"github.com/autobase/webfront/internal/format"
	"github.com/autobase/webfront/pkg/clients/dealership"
)

// MyOrdersAPI is the backend surface of the "current sales orders" page.
type MyOrdersAPI interface {
	CustomerSalesOrders(ctx context.Context) ([]models.SalesOrder, error)
	EmployeeSalesOrders(ctx context.Context) ([]models.SalesOrder, error)
	CustomerVehicle(ctx context.Context, vin string) (*models.Vehicle, error)
	EmployeeVehicle(ctx context.Context, vin string) (*models.Vehicle, error)
	CustomerEmployee(ctx context.Context, id string) (models.Record, error)
	EmployeeCustomer(ctx context.Context, id string) (models.Record, error)
}

// Detail kinds.
const (
	DetailVehicle  = "vehicle"
	DetailEmployee = "employee"
	DetailCustomer = "customer"
)

// DetailField is one labelled value of a detail view.
type DetailField struct {
	Label string
	Value string
}

// Detail is the content of the details dialog.
type Detail struct {
	Title  string
	Fields []DetailField
}

// MyOrders shows a customer's purchases or the orders assigned to an
// employee, depending on who is signed in.
type MyOrders struct {
	api  MyOrdersAPI
	user *models.User

	Orders []models.SalesOrder
	Error  string
}

// NewMyOrders builds the page for user.
func NewMyOrders(api MyOrdersAPI, user *models.User) *MyOrders {
	return &MyOrders{api: api, user: user}
}

// IsCustomer reports whether the customer layout is used.
func (p *MyOrders) IsCustomer() bool {
	return p.user.HasRole(models.RoleCustomer)
}

// Headers returns the table headers for the viewer's role.
func (p *MyOrders) Headers() []string {
	if p.IsCustomer() {
		return []string{"Order ID", "Vehicle VIN", "Sale Date", "Price", "Sales Employee", "Actions"}
	}
	return []string{"Order ID", "Customer", "Vehicle VIN", "Sale Date", "Price", "Actions"}
}

// Load fetches the viewer's orders from the endpoint matching their role.
func (p *MyOrders) Load(ctx context.Context) error {
	var (
		orders []models.SalesOrder
		err    error
	)
	switch {
	case p.IsCustomer():
		orders, err = p.api.CustomerSalesOrders(ctx)
	case p.user.HasRole(models.RoleEmployee, models.RoleManager):
		orders, err = p.api.EmployeeSalesOrders(ctx)
	default:
		return ErrForbidden
	}
	if err != nil {
		p.Error = dealership.Message(err, "Failed to fetch orders")
		return err
	}

	p.Orders = orders
	p.Error = ""
	return nil
}

// Stats summarizes the loaded orders.
func (p *MyOrders) Stats() OrderStats {
	return Stats(p.Orders)
}

// CanView reports whether the viewer may open a detail of the given kind.
func (p *MyOrders) CanView(kind string) bool {
	switch kind {
	case DetailVehicle:
		return p.user != nil
	case DetailEmployee:
		return p.IsCustomer()
	case DetailCustomer:
		return p.user.HasRole(models.RoleEmployee, models.RoleManager)
	default:
		return false
	}
}

// Detail fetches a vehicle, employee or customer through the endpoint that
// belongs to the viewer's role.
func (p *MyOrders) Detail(ctx context.Context, kind, id string) (*Detail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalid("Nothing to show.")
	}
	if !p.CanView(kind) {
		return nil, ErrForbidden
	}

	switch kind {
	case DetailVehicle:
		fetch := p.api.EmployeeVehicle
		if p.IsCustomer() {
			fetch = p.api.CustomerVehicle
		}
		v, err := fetch(ctx, id)
		if err != nil {
			return nil, err
		}
		return vehicleDetail(*v), nil

	case DetailEmployee:
		rec, err := p.api.CustomerEmployee(ctx, id)
		if err != nil {
			return nil, err
		}
		return recordDetail("Employee Details", rec, "Name", "Email", "Phone"), nil

	default:
		rec, err := p.api.EmployeeCustomer(ctx, id)
		if err != nil {
			return nil, err
		}
		return recordDetail("Customer Details", rec, "Name", "Email", "Phone", "Address"), nil
	}
}

// DetailFallback is the alert shown when a detail cannot be loaded.
func DetailFallback(kind string) string {
	switch kind {
	case DetailEmployee:
		return "Unable to load employee details."
	case DetailCustomer:
		return "Unable to load customer details."
	default:
		return "Unable to load vehicle details."
	}
}

func vehicleDetail(v models.Vehicle) *Detail {
	mileage := format.NotAvailable
	if v.Mileage.Int64() != 0 {
		mileage = format.Number(v.Mileage) + " miles"
	}
	return &Detail{
		Title: "Vehicle Details",
		Fields: []DetailField{
			{Label: "VIN", Value: v.VIN},
			{Label: "Make", Value: v.Make},
			{Label: "Model", Value: v.Model},
			{Label: "Year", Value: v.Year.String()},
			{Label: "Color", Value: v.Color},
			{Label: "Mileage", Value: mileage},
			{Label: "Price", Value: format.Currency(v.Price)},
		},
	}
}

func recordDetail(title string, rec models.Record, keys ...string) *Detail {
	d := &Detail{Title: title}
	for _, key := range keys {
		d.Fields = append(d.Fields, DetailField{Label: key, Value: rec.String(key)})
	}
	return d
}
