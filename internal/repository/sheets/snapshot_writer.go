package sheets

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/autobase/webfront/internal/domain/models"
)

const (
	snapshotHeaderRange = "Snapshots!A1:I1"
	snapshotAppendRange = "Snapshots!A:I"
)

var snapshotHeader = []interface{}{
	"Taken At", "Total Sales", "Orders", "Service Revenue", "Labor Hours",
	"Parts Cost", "Low Stock Parts", "Top Seller", "Sources",
}

// SnapshotWriter appends one summary row per report snapshot to the
// "Snapshots" tab, writing the header first when the tab is empty.
type SnapshotWriter struct {
	repo Repository
}

// NewSnapshotWriter builds a snapshot sink on top of a sheet repository.
func NewSnapshotWriter(repo Repository) *SnapshotWriter {
	return &SnapshotWriter{repo: repo}
}

// SaveSnapshot appends the snapshot's summary row.
func (w *SnapshotWriter) SaveSnapshot(ctx context.Context, snapshot models.ReportSnapshot) error {
	header, err := w.repo.ReadRange(ctx, snapshotHeaderRange)
	if err != nil {
		return fmt.Errorf("check snapshot header: %w", err)
	}

	rows := [][]interface{}{snapshotRow(snapshot)}
	if len(header) == 0 {
		rows = append([][]interface{}{snapshotHeader}, rows...)
	}
	if err := w.repo.AppendRows(ctx, snapshotAppendRange, rows...); err != nil {
		return fmt.Errorf("append snapshot: %w", err)
	}
	return nil
}

func snapshotRow(s models.ReportSnapshot) []interface{} {
	return []interface{}{
		s.TakenAt.UTC().Format(time.RFC3339),
		s.TotalSales,
		s.OrderCount,
		s.ServiceRev,
		s.LaborHours,
		s.PartsCost,
		s.LowStockParts,
		topSeller(s.SalesByEmp),
		sourcesSummary(s.Sources),
	}
}

func topSeller(totals []models.EmployeeTotal) string {
	var best *models.EmployeeTotal
	for i := range totals {
		if best == nil || totals[i].TotalSales > best.TotalSales {
			best = &totals[i]
		}
	}
	if best == nil {
		return ""
	}
	return best.EmployeeName
}

// sourcesSummary renders "parts=ok; sales=ok" in key order.
func sourcesSummary(sources map[string]string) string {
	keys := make([]string, 0, len(sources))
	for k := range sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+sources[k])
	}
	return strings.Join(parts, "; ")
}
