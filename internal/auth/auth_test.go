package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/autobase/webfront/internal/config"
	"github.com/autobase/webfront/internal/domain/models"
	"github.com/autobase/webfront/pkg/clients/dealership"
)

type stubSource struct {
	user *models.User
	err  error
}

func (s stubSource) CurrentUser(context.Context) (*models.User, error) {
	return s.user, s.err
}

func TestResolve_UnauthenticatedIsAbsentNotError(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
		}))

		client := dealership.NewClient(config.BackendConfig{BaseURL: srv.URL, Timeout: time.Second, SessionCookie: "session"}, nil)
		core, logs := observer.New(zapcore.DebugLevel)
		resolver := NewResolver(zap.New(core))

		user := resolver.Resolve(context.Background(), client.Session())
		assert.Nil(t, user, "status %d", status)
		assert.Zero(t, logs.Len(), "unauthenticated sessions are not logged")
		srv.Close()
	}
}

func TestResolve_OtherFailuresAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	resolver := NewResolver(zap.New(core))

	user := resolver.Resolve(context.Background(), stubSource{err: errors.New("connection refused")})
	assert.Nil(t, user)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "resolve session user", logs.All()[0].Message)
}

func TestResolve_User(t *testing.T) {
	resolver := NewResolver(nil)

	assert.Nil(t, resolver.Resolve(context.Background(), stubSource{}))

	want := &models.User{Username: "alice", Role: models.RoleCustomer}
	assert.Equal(t, want, resolver.Resolve(context.Background(), stubSource{user: want}))
}

func TestAllowed(t *testing.T) {
	manager := &models.User{Username: "m", Role: models.RoleManager}

	assert.False(t, Allowed(nil))
	assert.True(t, Allowed(manager))
	assert.True(t, Allowed(manager, models.RoleEmployee, models.RoleManager))
	assert.False(t, Allowed(manager, models.RoleCustomer))
}

func TestHomePath(t *testing.T) {
	assert.Equal(t, "/customer", HomePath(models.RoleCustomer))
	assert.Equal(t, "/employee/sales-orders", HomePath(models.RoleEmployee))
	assert.Equal(t, "/manager", HomePath(models.RoleManager))
}

func TestNavigation(t *testing.T) {
	labels := func(nav Nav) []string {
		out := make([]string, 0, len(nav.Links))
		for _, l := range nav.Links {
			out = append(out, l.Label)
		}
		return out
	}

	anon := Navigation(nil)
	assert.False(t, anon.SignedIn)
	assert.Equal(t, []string{"Available Vehicles"}, labels(anon))

	customer := Navigation(&models.User{Username: "alice", Role: models.RoleCustomer})
	assert.Equal(t, "alice (customer)", customer.Greeting)
	assert.Equal(t, []string{"My Account", "Vehicles", "Current Sales Orders", "Available Vehicles"}, labels(customer))

	employee := Navigation(&models.User{Username: "jo", Role: models.RoleEmployee})
	assert.Equal(t, []string{"Sales Orders", "Current Sales Orders", "Employee Tools", "Available Vehicles"}, labels(employee))

	manager := Navigation(&models.User{Username: "m", Role: models.RoleManager})
	assert.Equal(t, []string{"Manager Dashboard", "Sales Orders", "Employee Tools", "Available Vehicles"}, labels(manager))
}
