package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/autobase/webfront/internal/domain/models"
	"github.com/autobase/webfront/pkg/clients/dealership"
)

// UserSource fetches the identity behind a backend session.
type UserSource interface {
	CurrentUser(ctx context.Context) (*models.User, error)
}

// Resolver turns a backend session into the signed-in user.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver builds a Resolver.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

// Resolve returns the signed-in user, or nil. A 401/403 answer means nobody is
// signed in; every other failure is logged and also yields nil, so callers
// treat "no user" uniformly.
func (r *Resolver) Resolve(ctx context.Context, src UserSource) *models.User {
	user, err := src.CurrentUser(ctx)
	if err != nil {
		if !dealership.IsUnauthorized(err) {
			r.logger.Warn("resolve session user", zap.Error(err))
		}
		return nil
	}
	if user == nil || user.Username == "" {
		return nil
	}
	return user
}

// Allowed reports whether user may open a page restricted to roles. An empty
// role set admits any signed-in user.
func Allowed(user *models.User, roles ...models.Role) bool {
	if user == nil {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	return user.HasRole(roles...)
}

// HomePath is where a user lands after signing in.
func HomePath(role models.Role) string {
	switch role {
	case models.RoleEmployee:
		return "/employee/sales-orders"
	case models.RoleManager:
		return "/manager"
	case models.RoleCustomer:
		return "/customer"
	default:
		return "/"
	}
}
