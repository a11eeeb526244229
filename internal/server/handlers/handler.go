package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autobase/webfront/internal/auth"
	"github.com/autobase/webfront/internal/domain/models"
	"github.com/autobase/webfront/internal/server/views"
	"github.com/autobase/webfront/pkg/clients/dealership"
)

const (
	userKey    = "autobase.user"
	backendKey = "autobase.backend"
)

// Options tunes the cookies the handlers write.
type Options struct {
	SessionSecret string
	SecureCookies bool
}

// Handler serves every page of the front end. Each request gets its own
// backend session built from the browser's relayed cookie.
type Handler struct {
	client   *dealership.Client
	resolver *auth.Resolver
	flashes  *flashStore
	secure   bool
	logger   *zap.Logger
}

// New constructs the page handlers.
func New(client *dealership.Client, resolver *auth.Resolver, opts Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resolver == nil {
		resolver = auth.NewResolver(logger)
	}
	return &Handler{
		client:   client,
		resolver: resolver,
		flashes:  newFlashStore(opts.SessionSecret, opts.SecureCookies, logger),
		secure:   opts.SecureCookies,
		logger:   logger,
	}
}

// Identify resolves the signed-in user for the request. Browsers without a
// backend cookie are anonymous without asking the backend.
func (h *Handler) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := h.backendFromRequest(c.Request)

		var user *models.User
		if !sess.Anonymous() {
			user = h.resolver.Resolve(c.Request.Context(), sess)
		}

		c.Set(backendKey, sess)
		c.Set(userKey, user)
		c.Next()
	}
}

// Require admits signed-in users holding one of roles (any role when empty)
// and sends everyone else to the login page.
func (h *Handler) Require(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.Allowed(currentUser(c), roles...) {
			h.flashes.add(c, flashDanger, "Unauthorized access.")
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "error", "Not Found", errorView{
		Status:  http.StatusNotFound,
		Message: "The page you are looking for does not exist.",
	})
}

func (h *Handler) render(c *gin.Context, status int, page, title string, data any) {
	c.HTML(status, page, views.Page{
		Title:   title,
		Path:    c.Request.URL.Path,
		Nav:     auth.Navigation(currentUser(c)),
		Flashes: h.flashes.pop(c),
		Data:    data,
	})
}

// redirect stores a flash and sends the browser to target.
func (h *Handler) redirect(c *gin.Context, target, kind, text string) {
	if text != "" {
		h.flashes.add(c, kind, text)
	}
	c.Redirect(http.StatusSeeOther, target)
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func (h *Handler) backend(c *gin.Context) *dealership.Session {
	if v, ok := c.Get(backendKey); ok {
		if sess, ok := v.(*dealership.Session); ok {
			return sess
		}
	}
	return h.backendFromRequest(c.Request)
}

func (h *Handler) backendFromRequest(r *http.Request) *dealership.Session {
	ck, err := r.Cookie(h.client.CookieName())
	if err != nil {
		return h.client.Session()
	}
	return h.client.Session(ck)
}

// relayCookies copies the backend's session cookies onto the browser.
func (h *Handler) relayCookies(c *gin.Context, cookies []*http.Cookie) {
	for _, ck := range cookies {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     ck.Name,
			Value:    ck.Value,
			Path:     "/",
			Expires:  ck.Expires,
			MaxAge:   ck.MaxAge,
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func (h *Handler) clearBackendCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.client.CookieName(),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
