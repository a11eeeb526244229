package report

import (
	"github.com/autobase/webfront/internal/domain/models"
)

// SalesAggregate lays out GET /api/manager/sales/aggregate.
func SalesAggregate(by models.AggregateBy) Table {
	first := Column{Label: "Date", Key: "date", Format: Date}
	if by == models.ByEmployee {
		first = Column{Label: "Employee Name", Format: Text}
	}
	return Table{Columns: []Column{
		first,
		{Label: "Total Sales", Format: Currency},
		{Label: "Order Count", Format: Number},
	}}
}

// ServiceSummary lays out GET /api/manager/service/summary.
func ServiceSummary(by models.AggregateBy) Table {
	first := Column{Label: "Date", Key: "date", Format: Date}
	if by == models.ByEmployee {
		first = Column{Label: "Employee Name", Format: Text}
	}
	return Table{Columns: []Column{
		first,
		{Label: "Service Revenue", Format: Currency},
		{Label: "Labor Hours", Format: Number},
		{Label: "Parts Cost", Format: Currency},
	}}
}

// PartsUsage lays out GET /api/manager/parts/usage.
var PartsUsage = Table{Columns: []Column{
	{Label: "Name", Format: Text},
	{Label: "Stock", Format: Number},
	{Label: "Times Used", Format: Number},
	{Label: "Price", Format: Currency},
}}

// CustomerVehicles lays out the customer vehicles report.
var CustomerVehicles = Table{Columns: []Column{
	{Label: "Customer ID", Format: Text},
	{Label: "Customer Name", Format: Text},
	{Label: "Vehicle Amount", Format: Number},
	{Label: "Service Times", Format: Number},
}}

// WaitingVehicles lays out the report of vehicles waiting on parts.
var WaitingVehicles = Table{Columns: []Column{
	{Label: "Customer ID", Format: Text},
	{Label: "Customer Name", Format: Text},
	{Label: "Vehicle VIN", Format: Text},
	{Label: "Status", Format: Text},
	{Label: "Part ID", Format: Text},
	{Label: "Part Name", Format: Text},
	{Label: "Quantity", Format: Number},
	{Label: "Stock", Format: Number},
}}

// EmployeePerformance lays out the employee performance report. The backend
// names the core customer count after the home city.
var EmployeePerformance = Table{Columns: []Column{
	{Label: "Employee ID", Format: Text},
	{Label: "Employee Name", Format: Text},
	{Label: "Vehicle Sold", Format: Number},
	{Label: "Core Customers", Key: "Seattle Customers", Format: Number},
}}

// SalesByVehicle lays out the sales lookup by VIN.
var SalesByVehicle = Table{Empty: "No results.", Columns: []Column{
	{Label: "ID", Format: Text},
	{Label: "Sales Date", Key: "Sales_Date", Format: Date},
	{Label: "Price", Key: "Price", Format: Currency},
	{Label: "Customer", Key: "customer_name", Format: Text},
	{Label: "Sales Employee", Key: "sales_employee_name", Format: Text},
	{Label: "Vehicle VIN", Key: "Vehicle_VIN", Format: Text},
}}

// SalesByCustomer lays out the sales lookup by customer.
var SalesByCustomer = Table{Empty: "No results.", Columns: []Column{
	{Label: "ID", Format: Text},
	{Label: "Sales Date", Key: "Sales_Date", Format: Date},
	{Label: "Price", Key: "Price", Format: Currency},
	{Label: "Vehicle VIN", Key: "Vehicle_VIN", Format: Text},
	{Label: "Vehicle", Key: "Model", Format: Text},
	{Label: "Sales Employee", Key: "sales_employee_name", Format: Text},
}}

// ServiceLookup lays out service lookups by VIN or customer.
var ServiceLookup = Table{Empty: "No results.", Columns: []Column{
	{Label: "ID", Format: Text},
	{Label: "Date From", Key: "Date_From", Format: Date},
	{Label: "Date To", Key: "Date_To", Format: Date},
	{Label: "Status", Key: "Service_Status", Format: Text},
	{Label: "Price", Key: "Price", Format: Currency},
	{Label: "Assigned Employee", Key: "assigned_employee", Format: Text},
	{Label: "Service Type", Key: "service_type", Format: Text},
	{Label: "Labor Hours", Key: "labor_hours", Format: Number},
	{Label: "Labor Rate", Key: "labor_rate", Format: Currency},
	{Label: "Part Name", Key: "part_name", Format: Text},
	{Label: "Part Price", Key: "part_price", Format: Currency},
	{Label: "Part Quantity", Key: "part_quantity", Format: Number},
}}

// Shortage lays out the part shortage report.
var Shortage = Table{Empty: "No results.", Columns: []Column{
	{Label: "ID", Format: Text},
	{Label: "Name", Format: Text},
	{Label: "Price", Format: Currency},
	{Label: "Stock", Format: Number},
}}
