package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autobase/webfront/internal/pages"
)

// MyOrders renders the signed-in user's current sales orders. ?detail= and
// ?id= open the vehicle, employee or customer details panel.
func (h *Handler) MyOrders(c *gin.Context) {
	ctx := c.Request.Context()
	page := pages.NewMyOrders(h.backend(c), currentUser(c))
	if err := page.Load(ctx); err != nil {
		h.logger.Warn("load my orders", zap.Error(err))
	}

	view := myOrdersView{Page: page, Stats: page.Stats()}
	if kind := c.Query("detail"); kind != "" {
		detail, err := page.Detail(ctx, kind, c.Query("id"))
		if err != nil {
			h.logger.Info("load order detail", zap.String("kind", kind), zap.Error(err))
			view.DetailError = pages.Message(err, pages.DetailFallback(kind))
		} else {
			view.Detail = detail
		}
	}

	h.render(c, http.StatusOK, "my_orders", "Current Sales Orders", view)
}

// SalesOrders renders the assignment page with its filters applied.
func (h *Handler) SalesOrders(c *gin.Context) {
	page := pages.NewSalesOrders(h.backend(c))
	if err := page.Load(c.Request.Context()); err != nil {
		h.logger.Warn("load sales orders", zap.Error(err))
	}

	filter := pages.OrderFilter{
		Customer: strings.TrimSpace(c.Query("customer")),
		OrderID:  strings.TrimSpace(c.Query("order")),
	}
	orders := page.View(filter)

	h.render(c, http.StatusOK, "sales_orders", "Sales Orders", salesOrdersView{
		Page:   page,
		Filter: filter,
		Orders: orders,
		Stats:  pages.Stats(orders),
	})
}

// AssignSalesOrder assigns a sales employee and returns to the (filtered)
// list, which reloads.
func (h *Handler) AssignSalesOrder(c *gin.Context) {
	page := pages.NewSalesOrders(h.backend(c))
	msg, err := page.Assign(c.Request.Context(), c.PostForm("employee_id"), c.PostForm("order_id"))

	target := salesOrdersURL(c.PostForm("customer"), c.PostForm("order"))
	if err != nil {
		h.logger.Info("assign sales order failed", zap.Error(err))
		h.redirect(c, target, flashDanger, pages.Message(err, "Assignment failed"))
		return
	}
	h.redirect(c, target, flashSuccess, msg)
}

func salesOrdersURL(customer, order string) string {
	q := url.Values{}
	if s := strings.TrimSpace(customer); s != "" {
		q.Set("customer", s)
	}
	if s := strings.TrimSpace(order); s != "" {
		q.Set("order", s)
	}
	if len(q) == 0 {
		return "/employee/sales-orders"
	}
	return "/employee/sales-orders?" + q.Encode()
}
