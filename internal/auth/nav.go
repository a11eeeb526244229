package auth

import (
	"fmt"

	"github.com/autobase/webfront/internal/domain/models"
)

// NavLink is one entry of the navigation bar.
type NavLink struct {
	Label string
	Href  string
}

// Nav is the navigation bar for a visitor.
type Nav struct {
	Links    []NavLink
	Greeting string
	SignedIn bool
}

// Navigation builds the role-specific navigation bar. Available Vehicles is
// always last.
func Navigation(user *models.User) Nav {
	nav := Nav{}

	if user != nil {
		nav.SignedIn = true
		nav.Greeting = fmt.Sprintf("%s (%s)", user.Username, user.Role)

		switch user.Role {
		case models.RoleEmployee:
			nav.Links = append(nav.Links,
				NavLink{Label: "Sales Orders", Href: "/employee/sales-orders"},
				NavLink{Label: "Current Sales Orders", Href: "/orders/mine"},
				NavLink{Label: "Employee Tools", Href: "/employee/tools"},
			)
		case models.RoleCustomer:
			nav.Links = append(nav.Links,
				NavLink{Label: "My Account", Href: "/customer"},
				NavLink{Label: "Vehicles", Href: "/customer/vehicles"},
				NavLink{Label: "Current Sales Orders", Href: "/orders/mine"},
			)
		case models.RoleManager:
			nav.Links = append(nav.Links,
				NavLink{Label: "Manager Dashboard", Href: "/manager"},
				NavLink{Label: "Sales Orders", Href: "/employee/sales-orders"},
				NavLink{Label: "Employee Tools", Href: "/employee/tools"},
			)
		}
	}

	nav.Links = append(nav.Links, NavLink{Label: "Available Vehicles", Href: "/vehicles"})
	return nav
}
