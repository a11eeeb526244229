package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autobase/webfront/internal/auth"
	"github.com/autobase/webfront/internal/domain/models"
	"github.com/autobase/webfront/pkg/clients/dealership"
)

var loginRoles = []models.Role{models.RoleCustomer, models.RoleEmployee, models.RoleManager}

// Home renders the landing page.
func (h *Handler) Home(c *gin.Context) {
	user := currentUser(c)
	view := homeView{User: user}
	if user != nil {
		view.Home = auth.HomePath(user.Role)
	}
	h.render(c, http.StatusOK, "home", "Welcome", view)
}

// LoginPage renders the sign-in form, or sends signed-in users home.
func (h *Handler) LoginPage(c *gin.Context) {
	if user := currentUser(c); user != nil {
		c.Redirect(http.StatusSeeOther, auth.HomePath(user.Role))
		return
	}
	h.render(c, http.StatusOK, "login", "Login", loginView{Roles: loginRoles})
}

// Login signs in against the backend and relays its session cookie.
func (h *Handler) Login(c *gin.Context) {
	view := loginView{
		Username: strings.TrimSpace(c.PostForm("username")),
		Role:     c.PostForm("role"),
		Roles:    loginRoles,
	}
	password := c.PostForm("password")

	if view.Role == "" {
		view.Error = "Please select a role."
		h.render(c, http.StatusBadRequest, "login", "Login", view)
		return
	}
	role, err := models.ParseRole(view.Role)
	if err != nil {
		view.Error = "Please select a role."
		h.render(c, http.StatusBadRequest, "login", "Login", view)
		return
	}
	if view.Username == "" || password == "" {
		view.Error = "Please enter your username and password."
		h.render(c, http.StatusBadRequest, "login", "Login", view)
		return
	}

	res, err := h.client.Login(c.Request.Context(), models.LoginRequest{
		Username: view.Username,
		Password: password,
		UserType: role,
	})
	if err != nil {
		status := http.StatusBadGateway
		if dealership.IsUnauthorized(err) {
			status = http.StatusUnauthorized
		}
		h.logger.Info("login failed", zap.String("username", view.Username), zap.Error(err))
		view.Error = dealership.Message(err, "Login failed")
		h.render(c, status, "login", "Login", view)
		return
	}

	h.relayCookies(c, res.Cookies)

	landing := res.User.Role
	if landing == "" {
		landing = role
	}
	h.redirect(c, auth.HomePath(landing), flashSuccess, fmt.Sprintf("Logged in as %s: %s", landing, view.Username))
}

// Logout ends the backend session and forgets the relayed cookie. The cookie
// is dropped even when the backend call fails.
func (h *Handler) Logout(c *gin.Context) {
	if _, err := h.backend(c).Logout(c.Request.Context()); err != nil {
		h.logger.Warn("backend logout failed", zap.Error(err))
		h.clearBackendCookie(c)
		h.redirect(c, "/", flashDanger, "Error logging out.")
		return
	}

	h.clearBackendCookie(c)
	h.redirect(c, "/", flashSuccess, "Logged out successfully!")
}
