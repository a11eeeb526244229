package pages

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/autobase/webfront/internal/domain/models"
	"github.com/autobase/webfront/internal/report"
	"github.com/autobase/webfront/pkg/clients/dealership"
)

// DefaultShortageThreshold is used when the shortage form is left empty.
const DefaultShortageThreshold = 5

// ToolsAPI is the backend surface of the employee tools page.
type ToolsAPI interface {
	SalesByVehicle(ctx context.Context, vin string) ([]models.Row, error)
	SalesByCustomer(ctx context.Context, customerID string) ([]models.Row, error)
	ServiceByVehicle(ctx context.Context, vin string) ([]models.Row, error)
	ServiceByCustomer(ctx context.Context, customerID string) ([]models.Row, error)
	ReportShortage(ctx context.Context, threshold int) (*models.ShortageReport, error)
}

// Lookup targets.
const (
	ByVehicle  = "vehicle"
	ByCustomer = "customer"
)

// ToolsQuery is what the tools forms submitted. Empty fields skip the panel.
type ToolsQuery struct {
	SalesBy   string
	SalesTerm string

	ServiceBy   string
	ServiceTerm string

	RunShortage bool
	Threshold   string
}

// Panel is one result area of the tools page.
type Panel struct {
	Ran   bool
	Grid  report.Grid
	Error string
}

// EmployeeTools offers sales and service lookups and the part shortage report.
type EmployeeTools struct {
	api ToolsAPI

	Sales     Panel
	Service   Panel
	Shortage  Panel
	Threshold int
}

// NewEmployeeTools builds the page.
func NewEmployeeTools(api ToolsAPI) *EmployeeTools {
	return &EmployeeTools{api: api, Threshold: DefaultShortageThreshold}
}

// Run executes the requested lookups concurrently; each panel fails on its
// own.
func (p *EmployeeTools) Run(ctx context.Context, q ToolsQuery) {
	var g errgroup.Group

	if q.SalesBy != "" {
		g.Go(func() error {
			p.Sales = p.salesLookup(ctx, q.SalesBy, strings.TrimSpace(q.SalesTerm))
			return nil
		})
	}
	if q.ServiceBy != "" {
		g.Go(func() error {
			p.Service = p.serviceLookup(ctx, q.ServiceBy, strings.TrimSpace(q.ServiceTerm))
			return nil
		})
	}
	if q.RunShortage {
		threshold, err := parseThreshold(q.Threshold)
		if err != nil {
			p.Shortage = Panel{Ran: true, Error: err.Error()}
		} else {
			p.Threshold = threshold
			g.Go(func() error {
				p.Shortage = p.shortage(ctx, threshold)
				return nil
			})
		}
	}

	_ = g.Wait()
}

func (p *EmployeeTools) salesLookup(ctx context.Context, by, term string) Panel {
	switch by {
	case ByVehicle:
		if term == "" {
			return Panel{Ran: true, Error: "Enter VIN"}
		}
		rows, err := p.api.SalesByVehicle(ctx, term)
		if err != nil {
			return Panel{Ran: true, Error: dealership.Message(err, "Error fetching sales by VIN")}
		}
		return Panel{Ran: true, Grid: report.SalesByVehicle.Rows(report.Records(rows))}
	case ByCustomer:
		if term == "" {
			return Panel{Ran: true, Error: "Enter customer ID"}
		}
		rows, err := p.api.SalesByCustomer(ctx, term)
		if err != nil {
			return Panel{Ran: true, Error: dealership.Message(err, "Error fetching sales by customer")}
		}
		return Panel{Ran: true, Grid: report.SalesByCustomer.Rows(report.Records(rows))}
	default:
		return Panel{Ran: true, Error: "Unknown lookup"}
	}
}

func (p *EmployeeTools) serviceLookup(ctx context.Context, by, term string) Panel {
	var (
		rows []models.Row
		err  error
	)
	switch by {
	case ByVehicle:
		if term == "" {
			return Panel{Ran: true, Error: "Enter VIN"}
		}
		rows, err = p.api.ServiceByVehicle(ctx, term)
		if err != nil {
			return Panel{Ran: true, Error: dealership.Message(err, "Error fetching service by VIN")}
		}
	case ByCustomer:
		if term == "" {
			return Panel{Ran: true, Error: "Enter customer ID"}
		}
		rows, err = p.api.ServiceByCustomer(ctx, term)
		if err != nil {
			return Panel{Ran: true, Error: dealership.Message(err, "Error fetching service by customer")}
		}
	default:
		return Panel{Ran: true, Error: "Unknown lookup"}
	}
	return Panel{Ran: true, Grid: report.ServiceLookup.Rows(report.Records(rows))}
}

func (p *EmployeeTools) shortage(ctx context.Context, threshold int) Panel {
	res, err := p.api.ReportShortage(ctx, threshold)
	if err != nil {
		return Panel{Ran: true, Error: dealership.Message(err, "Error running shortage report")}
	}
	return Panel{Ran: true, Grid: report.Shortage.Rows(report.Records(res.Shortages))}
}

func parseThreshold(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultShortageThreshold, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, invalid("Invalid threshold")
	}
	return n, nil
}
