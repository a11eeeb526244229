package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autobase/webfront/internal/pages"
)

// AvailableVehicles lists unsold vehicles.
func (h *Handler) AvailableVehicles(c *gin.Context) {
	page := pages.NewAvailableVehicles(h.backend(c), currentUser(c))
	if err := page.Load(c.Request.Context()); err != nil {
		h.logger.Warn("load available vehicles", zap.Error(err))
	}
	h.render(c, http.StatusOK, "vehicles", "Available Vehicles", vehiclesView{Page: page})
}

// BuyVehicle purchases the vehicle named in the path and reloads the list.
func (h *Handler) BuyVehicle(c *gin.Context) {
	price, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("price")), 64)
	if err != nil {
		price = 0
	}

	page := pages.NewAvailableVehicles(h.backend(c), currentUser(c))
	msg, err := page.Buy(c.Request.Context(), c.Param("vin"), price)
	if err != nil {
		h.logger.Info("buy vehicle failed", zap.String("vin", c.Param("vin")), zap.Error(err))
		h.redirect(c, "/vehicles", flashDanger, pages.Message(err, "Purchase failed"))
		return
	}
	h.redirect(c, "/vehicles", flashSuccess, msg)
}
