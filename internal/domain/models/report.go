package models

import (
	"time"
)

// Row is a generic report row keyed by column name, as returned by the
// manager report endpoints ("Customer ID", "Vehicle Amount", ...) and the
// employee lookup endpoints.
type Row map[string]any

// Field implements the report renderer's lookup.
func (r Row) Field(key string) (any, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// AggregateBy selects how the manager aggregates are grouped.
type AggregateBy string

const (
	ByDate     AggregateBy = "date"
	ByEmployee AggregateBy = "employee"
)

// ParseAggregateBy defaults anything unknown to grouping by date, as the
// backend does.
func ParseAggregateBy(raw string) AggregateBy {
	if AggregateBy(raw) == ByEmployee {
		return ByEmployee
	}
	return ByDate
}

// SalesAggregate is one bucket of GET /api/manager/sales/aggregate.
type SalesAggregate struct {
	Date         string  `json:"date"`
	EmployeeID   Int     `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	TotalSales   Decimal `json:"total_sales"`
	OrderCount   Int     `json:"order_count"`
}

// Field implements the report renderer's lookup.
func (a SalesAggregate) Field(key string) (any, bool) {
	switch key {
	case "date":
		return a.Date, a.Date != ""
	case "employee_id":
		return a.EmployeeID, a.EmployeeID.Valid
	case "employee_name":
		return a.EmployeeName, a.EmployeeName != ""
	case "total_sales":
		return a.TotalSales, a.TotalSales.Valid
	case "order_count":
		return a.OrderCount, a.OrderCount.Valid
	}
	return nil, false
}

// ServiceSummary is one bucket of GET /api/manager/service/summary.
type ServiceSummary struct {
	Date           string  `json:"date"`
	EmployeeID     Int     `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	ServiceRevenue Decimal `json:"service_revenue"`
	LaborHours     Decimal `json:"labor_hours"`
	PartsCost      Decimal `json:"parts_cost"`
}

// Field implements the report renderer's lookup.
func (s ServiceSummary) Field(key string) (any, bool) {
	switch key {
	case "date":
		return s.Date, s.Date != ""
	case "employee_id":
		return s.EmployeeID, s.EmployeeID.Valid
	case "employee_name":
		return s.EmployeeName, s.EmployeeName != ""
	case "service_revenue":
		return s.ServiceRevenue, s.ServiceRevenue.Valid
	case "labor_hours":
		return s.LaborHours, s.LaborHours.Valid
	case "parts_cost":
		return s.PartsCost, s.PartsCost.Valid
	}
	return nil, false
}

// PartUsage is one row of GET /api/manager/parts/usage.
type PartUsage struct {
	ID        Int     `json:"ID"`
	Name      string  `json:"Name"`
	Price     Decimal `json:"Price"`
	Stock     Int     `json:"Stock"`
	TimesUsed Int     `json:"times_used"`
}

// Field implements the report renderer's lookup.
func (p PartUsage) Field(key string) (any, bool) {
	switch key {
	case "ID":
		return p.ID, p.ID.Valid
	case "Name":
		return p.Name, p.Name != ""
	case "Price":
		return p.Price, p.Price.Valid
	case "Stock":
		return p.Stock, p.Stock.Valid
	case "times_used":
		return p.TimesUsed, p.TimesUsed.Valid
	}
	return nil, false
}

// Field implements the report renderer's lookup.
func (p Part) Field(key string) (any, bool) {
	switch key {
	case "ID":
		return p.ID, p.ID.Valid
	case "Name":
		return p.Name, p.Name != ""
	case "Price":
		return p.Price, p.Price.Valid
	case "Stock":
		return p.Stock, p.Stock.Valid
	}
	return nil, false
}

// ReportSnapshot is the periodic copy of the manager dashboards kept for
// history.
type ReportSnapshot struct {
	TakenAt       time.Time         `bson:"taken_at" json:"taken_at"`
	TotalSales    float64           `bson:"total_sales" json:"total_sales"`
	OrderCount    int64             `bson:"order_count" json:"order_count"`
	ServiceRev    float64           `bson:"service_revenue" json:"service_revenue"`
	LaborHours    float64           `bson:"labor_hours" json:"labor_hours"`
	PartsCost     float64           `bson:"parts_cost" json:"parts_cost"`
	LowStockParts int               `bson:"low_stock_parts" json:"low_stock_parts"`
	SalesByEmp    []EmployeeTotal   `bson:"sales_by_employee" json:"sales_by_employee"`
	Sources       map[string]string `bson:"sources,omitempty" json:"sources,omitempty"`
}

// EmployeeTotal is a flattened per-employee sales figure.
type EmployeeTotal struct {
	EmployeeID   int64   `bson:"employee_id" json:"employee_id"`
	EmployeeName string  `bson:"employee_name" json:"employee_name"`
	TotalSales   float64 `bson:"total_sales" json:"total_sales"`
	OrderCount   int64   `bson:"order_count" json:"order_count"`
}
