package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/autobase/webfront/internal/domain/models"
	"github.com/autobase/webfront/pkg/clients/dealership"
)

// DefaultLowStockThreshold counts parts at or below this stock as low.
const DefaultLowStockThreshold = 5

// Snapshot sections, as recorded in ReportSnapshot.Sources.
const (
	SectionSales           = "sales"
	SectionSalesByEmployee = "sales_by_employee"
	SectionService         = "service"
	SectionParts           = "parts"
)

// Source is the manager reporting surface a snapshot is computed from.
type Source interface {
	SalesAggregate(ctx context.Context, by models.AggregateBy) ([]models.SalesAggregate, error)
	ServiceSummary(ctx context.Context, by models.AggregateBy) ([]models.ServiceSummary, error)
	PartsUsage(ctx context.Context, threshold *int) ([]models.PartUsage, error)
}

// Opener signs in and returns a Source bound to the new session.
type Opener interface {
	Open(ctx context.Context) (Source, error)
}

// Sink stores snapshots.
type Sink interface {
	SaveSnapshot(ctx context.Context, snapshot models.ReportSnapshot) error
}

// ManagerLogin opens backend sessions with a manager account.
type ManagerLogin struct {
	Client   *dealership.Client
	Username string
	Password string
}

// Open implements Opener.
func (m ManagerLogin) Open(ctx context.Context) (Source, error) {
	res, err := m.Client.Login(ctx, models.LoginRequest{
		Username: m.Username,
		Password: m.Password,
		UserType: models.RoleManager,
	})
	if err != nil {
		return nil, fmt.Errorf("login as %s: %w", m.Username, err)
	}
	if len(res.Cookies) == 0 {
		return nil, fmt.Errorf("login as %s: backend returned no session cookie", m.Username)
	}
	return m.Client.Session(res.Cookies...), nil
}

// Service takes periodic snapshots of the manager reports.
type Service struct {
	opener   Opener
	sinks    []Sink
	lowStock int
	now      func() time.Time
	logger   *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(opener Opener, sinks []Sink, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		opener:   opener,
		sinks:    sinks,
		lowStock: DefaultLowStockThreshold,
		now:      time.Now,
		logger:   logger,
	}
}

// Build computes a snapshot. Sections fail independently and the failure is
// noted in Sources; a failed section contributes nothing, and the build fails
// only when every section does.
func (s *Service) Build(ctx context.Context) (*models.ReportSnapshot, error) {
	src, err := s.opener.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open reporting session: %w", err)
	}

	snap := &models.ReportSnapshot{
		TakenAt: s.now().UTC(),
		Sources: map[string]string{},
	}

	var (
		salesByDate []models.SalesAggregate
		salesByEmp  []models.SalesAggregate
		service     []models.ServiceSummary
		lowStock    []models.PartUsage
		errs        = make([]error, 4)
	)

	// Totals come from the by-date buckets: the by-employee grouping leaves
	// out orders nobody is assigned to.
	var g errgroup.Group
	g.Go(func() error {
		salesByDate, errs[0] = src.SalesAggregate(ctx, models.ByDate)
		return nil
	})
	g.Go(func() error {
		salesByEmp, errs[1] = src.SalesAggregate(ctx, models.ByEmployee)
		return nil
	})
	g.Go(func() error {
		service, errs[2] = src.ServiceSummary(ctx, models.ByDate)
		return nil
	})
	g.Go(func() error {
		threshold := s.lowStock
		lowStock, errs[3] = src.PartsUsage(ctx, &threshold)
		return nil
	})
	_ = g.Wait()

	sections := []string{SectionSales, SectionSalesByEmployee, SectionService, SectionParts}
	failed := 0
	for i, section := range sections {
		if errs[i] != nil {
			failed++
			snap.Sources[section] = dealership.Message(errs[i], errs[i].Error())
			s.logger.Warn("snapshot section failed", zap.String("section", section), zap.Error(errs[i]))
			continue
		}
		snap.Sources[section] = "ok"
	}
	if failed == len(sections) {
		return nil, fmt.Errorf("build snapshot: %w", errors.Join(errs...))
	}

	if errs[0] == nil {
		for _, a := range salesByDate {
			snap.TotalSales += a.TotalSales.Float64()
			snap.OrderCount += a.OrderCount.Int64()
		}
	}
	if errs[1] == nil {
		for _, a := range salesByEmp {
			snap.SalesByEmp = append(snap.SalesByEmp, models.EmployeeTotal{
				EmployeeID:   a.EmployeeID.Int64(),
				EmployeeName: a.EmployeeName,
				TotalSales:   a.TotalSales.Float64(),
				OrderCount:   a.OrderCount.Int64(),
			})
		}
	}
	if errs[2] == nil {
		for _, row := range service {
			snap.ServiceRev += row.ServiceRevenue.Float64()
			snap.LaborHours += row.LaborHours.Float64()
			snap.PartsCost += row.PartsCost.Float64()
		}
	}
	if errs[3] == nil {
		snap.LowStockParts = len(lowStock)
	}

	return snap, nil
}

// TakeSnapshot builds a snapshot and hands it to every sink. A failing sink
// does not keep the others from receiving it.
func (s *Service) TakeSnapshot(ctx context.Context) (*models.ReportSnapshot, error) {
	snap, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, sink := range s.sinks {
		if err := sink.SaveSnapshot(ctx, *snap); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return snap, fmt.Errorf("store snapshot: %w", err)
	}

	s.logger.Info("report snapshot stored",
		zap.Time("taken_at", snap.TakenAt),
		zap.Float64("total_sales", snap.TotalSales),
		zap.Int64("order_count", snap.OrderCount),
		zap.Int("sinks", len(s.sinks)))
	return snap, nil
}
