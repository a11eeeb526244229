package pages

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/autobase/webfront/internal/domain/models"
	"github.com/autobase/webfront/pkg/clients/dealership"
)

// CustomerAPI is the backend surface of the customer account page.
type CustomerAPI interface {
	CustomerInfo(ctx context.Context) (models.Record, error)
	UpdateCustomerInfo(ctx context.Context, update models.CustomerUpdate) (models.Record, error)
	CustomerSalesOrders(ctx context.Context) ([]models.SalesOrder, error)
	CustomerServiceRecords(ctx context.Context) ([]models.ServiceRecord, error)
	VehiclesDueService(ctx context.Context) ([]models.DueVehicle, error)
}

// CustomerProfile is the customer account page: contact details, purchases,
// service history and service reminders. Each section loads on its own and
// fails on its own.
type CustomerProfile struct {
	api CustomerAPI

	Info      models.Record
	InfoError string

	Purchases      []models.SalesOrder
	PurchasesError string

	Services      []models.ServiceRecord
	ServicesError string

	// DueVehicles is best effort; a failure only hides the reminder.
	DueVehicles []models.DueVehicle
	DueErr      error
}

// NewCustomerProfile builds the page.
func NewCustomerProfile(api CustomerAPI) *CustomerProfile {
	return &CustomerProfile{api: api}
}

// Load fetches all sections concurrently.
func (p *CustomerProfile) Load(ctx context.Context) {
	var g errgroup.Group

	g.Go(func() error {
		info, err := p.api.CustomerInfo(ctx)
		if err != nil {
			p.InfoError = dealership.Message(err, "Request failed")
			return nil
		}
		p.Info, p.InfoError = info, ""
		return nil
	})
	g.Go(func() error {
		orders, err := p.api.CustomerSalesOrders(ctx)
		if err != nil {
			p.PurchasesError = dealership.Message(err, "Request failed")
			return nil
		}
		p.Purchases, p.PurchasesError = orders, ""
		return nil
	})
	g.Go(func() error {
		records, err := p.api.CustomerServiceRecords(ctx)
		if err != nil {
			p.ServicesError = dealership.Message(err, "Request failed")
			return nil
		}
		p.Services, p.ServicesError = records, ""
		return nil
	})
	g.Go(func() error {
		due, err := p.api.VehiclesDueService(ctx)
		if err != nil {
			p.DueErr = err
			return nil
		}
		p.DueVehicles, p.DueErr = due, nil
		return nil
	})

	_ = g.Wait()
}

// EditForm seeds the edit form from the loaded record.
func (p *CustomerProfile) EditForm() models.CustomerUpdate {
	return models.CustomerUpdateFrom(p.Info)
}

// Save stores the edited contact fields and replaces Info with the record the
// backend returns.
func (p *CustomerProfile) Save(ctx context.Context, update models.CustomerUpdate) error {
	if err := update.Validate(); err != nil {
		return invalid("Name is required.")
	}
	info, err := p.api.UpdateCustomerInfo(ctx, update)
	if err != nil {
		return err
	}
	p.Info, p.InfoError = info, ""
	return nil
}
