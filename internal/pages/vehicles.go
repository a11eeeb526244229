package pages

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/autobase/webfront/internal/domain/models"
	"github.com/autobase/webfront/pkg/clients/dealership"
)

// VehicleAPI is the backend surface of the available vehicles page.
type VehicleAPI interface {
	AvailableVehicles(ctx context.Context) ([]models.Vehicle, error)
	BuyVehicle(ctx context.Context, vin string, price float64) (string, error)
}

// AvailableVehicles lists unsold vehicles; customers can buy them.
type AvailableVehicles struct {
	api  VehicleAPI
	user *models.User

	Vehicles []models.Vehicle
	Error    string
}

// NewAvailableVehicles builds the page for user, who may be nil.
func NewAvailableVehicles(api VehicleAPI, user *models.User) *AvailableVehicles {
	return &AvailableVehicles{api: api, user: user}
}

// Load fetches the list. On failure the previous list is kept and Error set.
func (p *AvailableVehicles) Load(ctx context.Context) error {
	vehicles, err := p.api.AvailableVehicles(ctx)
	if err != nil {
		p.Error = "Unable to load vehicles."
		return err
	}
	p.Vehicles = vehicles
	p.Error = ""
	return nil
}

// CanBuy reports whether the Buy action is offered.
func (p *AvailableVehicles) CanBuy() bool {
	return p.user.HasRole(models.RoleCustomer)
}

// Buy purchases vin at price. The caller reloads the list afterwards.
func (p *AvailableVehicles) Buy(ctx context.Context, vin string, price float64) (string, error) {
	if !p.CanBuy() {
		return "", ErrForbidden
	}
	vin = strings.TrimSpace(vin)
	if vin == "" {
		return "", invalid("Vehicle is required.")
	}
	if price <= 0 {
		return "", invalid("Price is required")
	}

	msg, err := p.api.BuyVehicle(ctx, vin, price)
	if err != nil {
		return "", err
	}
	if msg == "" {
		msg = "Vehicle purchased successfully!"
	}
	return msg, nil
}

// CustomerVehicleAPI is the backend surface of the "my vehicles" page.
type CustomerVehicleAPI interface {
	CustomerVehicles(ctx context.Context) ([]models.Vehicle, error)
}

// Vehicle sort orders.
const (
	SortYearDesc = "year-desc"
	SortYearAsc  = "year-asc"
	SortMakeAsc  = "make-asc"
	SortMakeDesc = "make-desc"
)

// SortOptions lists the sort orders in menu order.
var SortOptions = []struct{ Value, Label string }{
	{SortYearDesc, "Year (Newest First)"},
	{SortYearAsc, "Year (Oldest First)"},
	{SortMakeAsc, "Make (A-Z)"},
	{SortMakeDesc, "Make (Z-A)"},
}

// VehicleFilter narrows and orders the customer's vehicles.
type VehicleFilter struct {
	Search string
	Sort   string
}

// CustomerVehicles is the signed-in customer's garage.
type CustomerVehicles struct {
	api CustomerVehicleAPI

	Vehicles []models.Vehicle
	Error    string
}

// NewCustomerVehicles builds the page.
func NewCustomerVehicles(api CustomerVehicleAPI) *CustomerVehicles {
	return &CustomerVehicles{api: api}
}

// Load fetches the customer's vehicles.
func (p *CustomerVehicles) Load(ctx context.Context) error {
	vehicles, err := p.api.CustomerVehicles(ctx)
	if err != nil {
		p.Error = dealership.Message(err, "Failed to fetch vehicles")
		return err
	}
	p.Vehicles = vehicles
	p.Error = ""
	return nil
}

// View returns the loaded vehicles matching f.Search (case-insensitive over
// make, model, year and VIN) in f.Sort order. Unknown sort orders fall back to
// newest first.
func (p *CustomerVehicles) View(f VehicleFilter) []models.Vehicle {
	term := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.Vehicle, 0, len(p.Vehicles))
	for _, v := range p.Vehicles {
		if term == "" || strings.Contains(v.SearchText(), term) {
			out = append(out, v)
		}
	}

	switch f.Sort {
	case SortYearAsc:
		slices.SortStableFunc(out, func(a, b models.Vehicle) int { return cmp.Compare(a.Year.Int64(), b.Year.Int64()) })
	case SortMakeAsc:
		slices.SortStableFunc(out, func(a, b models.Vehicle) int { return compareMake(a, b) })
	case SortMakeDesc:
		slices.SortStableFunc(out, func(a, b models.Vehicle) int { return compareMake(b, a) })
	default:
		slices.SortStableFunc(out, func(a, b models.Vehicle) int { return cmp.Compare(b.Year.Int64(), a.Year.Int64()) })
	}
	return out
}

func compareMake(a, b models.Vehicle) int {
	if c := cmp.Compare(strings.ToLower(a.Make), strings.ToLower(b.Make)); c != 0 {
		return c
	}
	return cmp.Compare(a.Make, b.Make)
}

// Find returns the loaded vehicle with the given VIN.
func (p *CustomerVehicles) Find(vin string) (models.Vehicle, bool) {
	for _, v := range p.Vehicles {
		if v.VIN == vin {
			return v, true
		}
	}
	return models.Vehicle{}, false
}

// NormalizeSort maps unknown sort values to the default order.
func NormalizeSort(raw string) string {
	switch raw {
	case SortYearDesc, SortYearAsc, SortMakeAsc, SortMakeDesc:
		return raw
	default:
		return SortYearDesc
	}
}
