package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autobase/webfront/internal/domain/models"
	"github.com/autobase/webfront/internal/pages"
)

var genders = []string{"Male", "Female", "Other"}

// CustomerProfile renders the account page. ?edit=1 opens the edit form.
func (h *Handler) CustomerProfile(c *gin.Context) {
	page := pages.NewCustomerProfile(h.backend(c))
	page.Load(c.Request.Context())

	h.render(c, http.StatusOK, "customer_profile", "My Account", profileView{
		Page:    page,
		Form:    page.EditForm(),
		Editing: c.Query("edit") == "1" && page.InfoError == "",
		Genders: genders,
	})
}

// SaveCustomerProfile stores the edited contact details.
func (h *Handler) SaveCustomerProfile(c *gin.Context) {
	update := models.CustomerUpdate{
		Name:    c.PostForm("name"),
		Phone:   c.PostForm("phone"),
		Email:   c.PostForm("email"),
		Address: c.PostForm("address"),
		Gender:  c.PostForm("gender"),
	}

	page := pages.NewCustomerProfile(h.backend(c))
	if err := page.Save(c.Request.Context(), update); err != nil {
		h.logger.Info("save customer profile failed", zap.Error(err))
		h.redirect(c, "/customer?edit=1", flashDanger, pages.Message(err, "Update failed"))
		return
	}
	h.redirect(c, "/customer", flashSuccess, "Your details were updated.")
}

// CustomerVehicles renders the customer's garage with search, sort and an
// optional detail panel (?vin=).
func (h *Handler) CustomerVehicles(c *gin.Context) {
	page := pages.NewCustomerVehicles(h.backend(c))
	if err := page.Load(c.Request.Context()); err != nil {
		h.logger.Warn("load customer vehicles", zap.Error(err))
	}

	filter := pages.VehicleFilter{
		Search: strings.TrimSpace(c.Query("q")),
		Sort:   pages.NormalizeSort(c.Query("sort")),
	}
	view := customerVehiclesView{
		Page:        page,
		Filter:      filter,
		Vehicles:    page.View(filter),
		SortOptions: pages.SortOptions,
	}
	if vin := c.Query("vin"); vin != "" {
		if v, ok := page.Find(vin); ok {
			view.Selected = &v
		}
	}

	h.render(c, http.StatusOK, "customer_vehicles", "My Vehicles", view)
}
