package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autobase/webfront/internal/domain/models"
	"github.com/autobase/webfront/internal/pages"
	"github.com/autobase/webfront/internal/report"
)

// EmployeeTools runs whichever lookups the query asks for.
func (h *Handler) EmployeeTools(c *gin.Context) {
	q := pages.ToolsQuery{
		SalesBy:     c.Query("sales_by"),
		SalesTerm:   c.Query("sales_q"),
		ServiceBy:   c.Query("service_by"),
		ServiceTerm: c.Query("service_q"),
		RunShortage: c.Query("shortage") == "1",
		Threshold:   c.Query("threshold"),
	}

	page := pages.NewEmployeeTools(h.backend(c))
	page.Run(c.Request.Context(), q)

	h.render(c, http.StatusOK, "tools", "Employee Tools", toolsView{Page: page, Query: q})
}

var reportTitles = []struct{ Name, Title string }{
	{pages.ReportCustomerVehicles, "Customer Vehicles"},
	{pages.ReportWaitingVehicles, "Vehicles Waiting on Parts"},
	{pages.ReportEmployeePerformance, "Employee Performance"},
}

// ManagerDashboard renders the aggregates and any advanced report asked for
// with ?run=.
func (h *Handler) ManagerDashboard(c *gin.Context) {
	q := pages.DashboardQuery{
		Sales: pages.AggregateFilter{
			By:         models.AggregateBy(c.Query("sales_by")),
			EmployeeID: c.Query("sales_emp"),
			From:       c.Query("sales_from"),
			To:         c.Query("sales_to"),
		},
		Service: pages.AggregateFilter{
			By:         models.AggregateBy(c.Query("service_by")),
			EmployeeID: c.Query("service_emp"),
			From:       c.Query("service_from"),
			To:         c.Query("service_to"),
		},
		Threshold: c.Query("threshold"),
		Reports:   c.QueryArray("run"),
	}

	page := pages.NewManagerDashboard(h.backend(c))
	page.Load(c.Request.Context(), q)
	for _, w := range page.Warnings {
		h.logger.Warn("manager dashboard", zap.String("warning", w))
	}

	view := managerView{Page: page}
	for _, r := range reportTitles {
		view.Reports = append(view.Reports, reportSection{Name: r.Name, Title: r.Title, Section: page.Reports[r.Name]})
	}

	h.render(c, http.StatusOK, "manager", "Manager Dashboard", view)
}

// ExportReport streams one manager report as an .xlsx workbook.
func (h *Handler) ExportReport(c *gin.Context) {
	name := strings.TrimSuffix(c.Param("file"), ".xlsx")

	page := pages.NewManagerDashboard(h.backend(c))
	table, records, err := page.Export(c.Request.Context(), name, c.Query("threshold"))
	if err != nil {
		h.logger.Warn("export report", zap.String("report", name), zap.Error(err))
		h.redirect(c, "/manager", flashDanger, pages.Message(err, "Export failed"))
		return
	}

	c.Header("Content-Type", report.ContentTypeXLSX)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
	c.Status(http.StatusOK)
	if err := table.WriteXLSX(c.Writer, name, records); err != nil {
		h.logger.Error("write report workbook", zap.String("report", name), zap.Error(err))
	}
}
