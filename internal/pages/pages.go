// Package pages holds one controller per page. A controller is built for a
// single request with the caller's backend session, owns the lists it
// fetched, and derives filtered or sorted views from them without going back
// to the backend.
package pages

import (
	"errors"
	"strings"

	"github.com/autobase/webfront/internal/domain/models"
	"github.com/autobase/webfront/pkg/clients/dealership"
)

// ErrForbidden is returned for actions the signed-in role may not perform.
var ErrForbidden = errors.New("action not allowed for this account")

// ValidationError is a user input problem reported before any backend call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// Message converts an action error into the text of the alert shown to the
// user.
func Message(err error, fallback string) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	if errors.Is(err, ErrForbidden) {
		return "Unauthorized access."
	}
	return dealership.Message(err, fallback)
}

// OrderStats summarizes a list of sales orders.
type OrderStats struct {
	Count   int
	Revenue float64
}

// Stats counts orders and adds up their prices.
func Stats(orders []models.SalesOrder) OrderStats {
	s := OrderStats{Count: len(orders)}
	for _, o := range orders {
		s.Revenue += o.Price.Float64()
	}
	return s
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
