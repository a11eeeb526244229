package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/autobase/webfront/internal/domain/models"
	"github.com/autobase/webfront/internal/format"
	"github.com/autobase/webfront/internal/report"
)

// ManagerAPI is the backend surface of the manager dashboard.
type ManagerAPI interface {
	Employees(ctx context.Context) ([]models.Employee, error)
	SalesAggregate(ctx context.Context, by models.AggregateBy) ([]models.SalesAggregate, error)
	ServiceSummary(ctx context.Context, by models.AggregateBy) ([]models.ServiceSummary, error)
	PartsUsage(ctx context.Context, threshold *int) ([]models.PartUsage, error)
	CustomerVehiclesReport(ctx context.Context) ([]models.Row, error)
	WaitingVehiclesReport(ctx context.Context) ([]models.Row, error)
	EmployeePerformanceReport(ctx context.Context) ([]models.Row, error)
}

// Advanced report names, as used in URLs.
const (
	ReportCustomerVehicles    = "customer-vehicles"
	ReportWaitingVehicles     = "waiting-vehicles"
	ReportEmployeePerformance = "employee-performance"
	ReportPartsUsage          = "parts-usage"
)

// AggregateFilter narrows a sales or service aggregate in memory.
type AggregateFilter struct {
	By         models.AggregateBy
	EmployeeID string
	// From and To are inclusive YYYY-MM-DD bounds; either may be empty.
	From string
	To   string
}

// DashboardQuery holds the dashboard form values.
type DashboardQuery struct {
	Sales     AggregateFilter
	Service   AggregateFilter
	Threshold string
	Reports   []string
}

// CardSection is a card grid section of the dashboard.
type CardSection struct {
	Grid  report.CardGrid
	Error string
}

// TableSection is a full-width report section.
type TableSection struct {
	Ran   bool
	Grid  report.Grid
	Error string
}

// ManagerDashboard gathers the manager's aggregates and reports.
type ManagerDashboard struct {
	api ManagerAPI

	Employees []models.Employee

	Sales    CardSection
	Service  CardSection
	Parts    CardSection
	Reports  map[string]*TableSection
	Query    DashboardQuery
	Warnings []string
}

// NewManagerDashboard builds the page.
func NewManagerDashboard(api ManagerAPI) *ManagerDashboard {
	return &ManagerDashboard{
		api: api,
		Reports: map[string]*TableSection{
			ReportCustomerVehicles:    {},
			ReportWaitingVehicles:     {},
			ReportEmployeePerformance: {},
		},
	}
}

// Load fetches every section concurrently. Sections fail independently and
// report an inline message; the employee list only feeds the filters.
func (p *ManagerDashboard) Load(ctx context.Context, q DashboardQuery) {
	q.Sales.By = models.ParseAggregateBy(string(q.Sales.By))
	q.Service.By = models.ParseAggregateBy(string(q.Service.By))
	p.Query = q

	var g errgroup.Group

	g.Go(func() error {
		employees, err := p.api.Employees(ctx)
		if err != nil {
			p.Warnings = append(p.Warnings, "Could not fetch employees for filters")
			return nil
		}
		p.Employees = employees
		return nil
	})

	g.Go(func() error {
		items, err := p.api.SalesAggregate(ctx, q.Sales.By)
		if err != nil {
			p.Sales = CardSection{Error: "Error loading sales data"}
			return nil
		}
		items = filterAggregates(items, q.Sales, func(a models.SalesAggregate) (models.Int, string) { return a.EmployeeID, a.Date })
		p.Sales = CardSection{Grid: report.SalesAggregate(q.Sales.By).Cards(report.Records(items), report.DefaultLimit)}
		return nil
	})

	g.Go(func() error {
		items, err := p.api.ServiceSummary(ctx, q.Service.By)
		if err != nil {
			p.Service = CardSection{Error: "Error loading service data"}
			return nil
		}
		items = filterAggregates(items, q.Service, func(s models.ServiceSummary) (models.Int, string) { return s.EmployeeID, s.Date })
		p.Service = CardSection{Grid: report.ServiceSummary(q.Service.By).Cards(report.Records(items), report.DefaultLimit)}
		return nil
	})

	g.Go(func() error {
		items, err := p.api.PartsUsage(ctx, optionalInt(q.Threshold))
		if err != nil {
			p.Parts = CardSection{Error: "Error loading parts data"}
			return nil
		}
		p.Parts = CardSection{Grid: report.PartsUsage.Cards(report.Records(items), report.DefaultLimit)}
		return nil
	})

	for _, name := range q.Reports {
		section, ok := p.Reports[name]
		if !ok || section.Ran {
			continue
		}
		section.Ran = true
		g.Go(func() error {
			table, records, err := p.fetchReport(ctx, name)
			if err != nil {
				section.Error = reportError(name)
				return nil
			}
			section.Grid = table.Rows(records)
			return nil
		})
	}

	_ = g.Wait()
}

// Export fetches one report for download together with its layout.
func (p *ManagerDashboard) Export(ctx context.Context, name string, threshold string) (report.Table, []report.Record, error) {
	if name == ReportPartsUsage {
		items, err := p.api.PartsUsage(ctx, optionalInt(threshold))
		if err != nil {
			return report.Table{}, nil, err
		}
		return report.PartsUsage, report.Records(items), nil
	}
	return p.fetchReport(ctx, name)
}

func (p *ManagerDashboard) fetchReport(ctx context.Context, name string) (report.Table, []report.Record, error) {
	var (
		table report.Table
		rows  []models.Row
		err   error
	)
	switch name {
	case ReportCustomerVehicles:
		table = report.CustomerVehicles
		rows, err = p.api.CustomerVehiclesReport(ctx)
	case ReportWaitingVehicles:
		table = report.WaitingVehicles
		rows, err = p.api.WaitingVehiclesReport(ctx)
	case ReportEmployeePerformance:
		table = report.EmployeePerformance
		rows, err = p.api.EmployeePerformanceReport(ctx)
	default:
		return report.Table{}, nil, fmt.Errorf("unknown report %q", name)
	}
	if err != nil {
		return report.Table{}, nil, err
	}
	return table, report.Records(rows), nil
}

func reportError(name string) string {
	switch name {
	case ReportCustomerVehicles:
		return "Error loading customer report"
	case ReportWaitingVehicles:
		return "Error loading waiting vehicles report"
	default:
		return "Error loading employee performance report"
	}
}

// filterAggregates keeps items of the selected employee inside the date range.
// Items without a parseable date are dropped once a range is set.
func filterAggregates[T any](items []T, f AggregateFilter, key func(T) (models.Int, string)) []T {
	employee := strings.TrimSpace(f.EmployeeID)
	from, hasFrom := parseBound(f.From)
	to, hasTo := parseBound(f.To)

	if employee == "" && !hasFrom && !hasTo {
		return items
	}

	out := make([]T, 0, len(items))
	for _, it := range items {
		id, date := key(it)
		if employee != "" && id.String() != employee {
			continue
		}
		if hasFrom || hasTo {
			d, err := format.ParseDate(date)
			if err != nil {
				continue
			}
			if hasFrom && d.Before(from) {
				continue
			}
			if hasTo && d.After(to) {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

func parseBound(raw string) (time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, false
	}
	t, err := format.ParseDate(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func optionalInt(raw string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &n
}
