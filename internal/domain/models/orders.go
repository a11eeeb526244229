package models

import "fmt"

// SalesOrder is the union of the columns the various sales order listings
// return. Fields a listing does not select stay invalid or empty.
type SalesOrder struct {
	ID                Int     `json:"ID"`
	CustomerID        Int     `json:"Customer_ID"`
	CustomerName      string  `json:"Customer_Name"`
	VehicleVIN        string  `json:"Vehicle_VIN"`
	SalesDate         string  `json:"Sales_Date"`
	SalesEmployeeID   Int     `json:"Sales_Employee_ID"`
	SalesEmployeeName string  `json:"Sales_Employee_Name"`
	Price             Decimal `json:"Price"`
	Make              string  `json:"Make"`
	Model             string  `json:"Model"`
	Year              Int     `json:"Year"`
	Color             string  `json:"Color"`
}

// Assigned reports whether a sales employee owns the order.
func (o SalesOrder) Assigned() bool {
	return o.SalesEmployeeID.Valid || o.SalesEmployeeName != ""
}

// CustomerLabel returns the customer's name or a "Customer #id" stand-in.
func (o SalesOrder) CustomerLabel() string {
	if o.CustomerName != "" {
		return o.CustomerName
	}
	if o.CustomerID.Valid {
		return fmt.Sprintf("Customer #%d", o.CustomerID.Value)
	}
	return "Unknown Customer"
}

// EmployeeLabel resolves the assigned employee's display name, consulting the
// employee directory when the listing only carried the id.
func (o SalesOrder) EmployeeLabel(directory map[int64]Employee) string {
	if o.SalesEmployeeName != "" {
		return o.SalesEmployeeName
	}
	if !o.SalesEmployeeID.Valid {
		return "Not Assigned"
	}
	if emp, ok := directory[o.SalesEmployeeID.Value]; ok && emp.Name != "" {
		return emp.Name
	}
	return fmt.Sprintf("Employee #%d", o.SalesEmployeeID.Value)
}

// Employee mirrors the backend Employee listing.
type Employee struct {
	ID       Int    `json:"ID"`
	Name     string `json:"Name"`
	Email    string `json:"Email"`
	Phone    string `json:"Phone"`
	Gender   string `json:"Gender"`
	HireDate string `json:"Hire_Date"`
	EndDate  string `json:"End_Date"`
	Address  string `json:"Address"`
}

// DisplayName falls back to "Employee #id" for nameless records.
func (e Employee) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return fmt.Sprintf("Employee #%s", e.ID.String())
}

// EmployeeDirectory indexes employees by id.
func EmployeeDirectory(employees []Employee) map[int64]Employee {
	out := make(map[int64]Employee, len(employees))
	for _, e := range employees {
		if e.ID.Valid {
			out[e.ID.Value] = e
		}
	}
	return out
}

// AssignRequest is the body of PUT /api/employee/sales_orders/assign/{e}/{o}.
// The backend reads the ids from the path; the body repeats the employee id as
// the string the select box submitted.
type AssignRequest struct {
	EmployeeID string `json:"employee_id"`
}

// ServiceRecord is a customer's service history entry.
type ServiceRecord struct {
	ID                 Int     `json:"ID"`
	DateFrom           string  `json:"Date_From"`
	DateTo             string  `json:"Date_To"`
	ServiceStatus      string  `json:"Service_Status"`
	Price              Decimal `json:"Price"`
	VehicleVIN         string  `json:"Vehicle_VIN"`
	Make               string  `json:"Make"`
	Model              string  `json:"Model"`
	Year               Int     `json:"Year"`
	ServiceAdvisorName string  `json:"Service_Advisor_Name"`
}

// Part is a row of the parts inventory.
type Part struct {
	ID    Int     `json:"ID"`
	Name  string  `json:"Name"`
	Price Decimal `json:"Price"`
	Stock Int     `json:"Stock"`
}

// ShortageReport is the response of POST /api/employee/parts/report_shortage.
type ShortageReport struct {
	Shortages []Part `json:"shortages"`
	Threshold int    `json:"threshold"`
}

// ShortageRequest is the body of the shortage report call.
type ShortageRequest struct {
	Threshold int `json:"threshold"`
}
