package models

import (
	"fmt"
	"strings"
)

// Vehicle mirrors a row of the backend Vehicle table.
type Vehicle struct {
	VIN     string  `json:"VIN"`
	Make    string  `json:"Make"`
	Model   string  `json:"Model"`
	Year    Int     `json:"Year"`
	Color   string  `json:"Color"`
	Mileage Int     `json:"Mileage"`
	Price   Decimal `json:"Price"`
}

// Title is the "2019 Honda Accord" heading used by cards and detail views.
func (v Vehicle) Title() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", v.Year.String(), v.Make, v.Model))
}

// SearchText is the haystack vehicle search terms are matched against.
func (v Vehicle) SearchText() string {
	return strings.ToLower(fmt.Sprintf("%s %s %s %s", v.Make, v.Model, v.Year.String(), v.VIN))
}

// DueVehicle is a customer vehicle that has not been serviced for a year.
type DueVehicle struct {
	VIN             string `json:"VIN"`
	Make            string `json:"Make"`
	Model           string `json:"Model"`
	Year            Int    `json:"Year"`
	LastServiceDate string `json:"Last_Service_Date"`
}

// PurchaseRequest is the body of POST /api/vehicle/vehicles/buy/{vin}.
type PurchaseRequest struct {
	Price float64 `json:"price"`
}
