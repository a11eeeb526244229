package handlers

import (
	"github.com/autobase/webfront/internal/domain/models"
	"github.com/autobase/webfront/internal/pages"
)

type homeView struct {
	User *models.User
	Home string
}

type loginView struct {
	Username string
	Role     string
	Roles    []models.Role
	Error    string
}

type errorView struct {
	Status  int
	Message string
}

type vehiclesView struct {
	Page *pages.AvailableVehicles
}

type profileView struct {
	Page    *pages.CustomerProfile
	Form    models.CustomerUpdate
	Editing bool
	Genders []string
}

type customerVehiclesView struct {
	Page        *pages.CustomerVehicles
	Filter      pages.VehicleFilter
	Vehicles    []models.Vehicle
	SortOptions []struct{ Value, Label string }
	Selected    *models.Vehicle
}

type myOrdersView struct {
	Page        *pages.MyOrders
	Stats       pages.OrderStats
	Detail      *pages.Detail
	DetailError string
}

type salesOrdersView struct {
	Page   *pages.SalesOrders
	Filter pages.OrderFilter
	Orders []models.SalesOrder
	Stats  pages.OrderStats
}

type toolsView struct {
	Page  *pages.EmployeeTools
	Query pages.ToolsQuery
}

type reportSection struct {
	Name    string
	Title   string
	Section *pages.TableSection
}

type managerView struct {
	Page    *pages.ManagerDashboard
	Reports []reportSection
}
