// Package format holds the display helpers shared by every page: HTML
// escaping, USD currency, UTC dates, grouped numbers and labels derived from
// snake_case keys. All functions are pure and return a placeholder instead of
// failing.
package format

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Placeholder values used when there is nothing to format.
const (
	NotAvailable = "N/A"
	ZeroNumber   = "0"
	ZeroCurrency = "$0.00"
)

// DisplayDateLayout renders dates as "Jan 2, 2006".
const DisplayDateLayout = "Jan 2, 2006"

// Floater is implemented by typed amounts that carry their own numeric value.
type Floater interface {
	Float64() float64
}

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// dateLayouts lists what the backend is known to emit: Flask serializes dates
// as RFC1123 with GMT, raw columns come back as ISO dates.
var dateLayouts = []string{
	time.RFC1123,
	time.RFC1123Z,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// EscapeHTML escapes text for insertion into an HTML context. Falsy input
// (nil, empty string, zero, false) yields an empty string. Templates escape
// on their own; this is for HTML built outside html/template.
func EscapeHTML(v any) string {
	if isFalsy(v) {
		return ""
	}
	return htmlReplacer.Replace(toString(v))
}

// Currency formats an amount as US dollars, e.g. 1234.5 -> "$1,234.50".
// Missing or unparseable values format as "$0.00".
func Currency(v any) string {
	f, ok := ToFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return ZeroCurrency
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	if f < 0.005 {
		return ZeroCurrency
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", f)
}

// Number formats a value with thousands separators. nil yields "0".
func Number(v any) string {
	switch n := v.(type) {
	case nil:
		return ZeroNumber
	case int:
		return humanize.Comma(int64(n))
	case int32:
		return humanize.Comma(int64(n))
	case int64:
		return humanize.Comma(n)
	}

	f, ok := ToFloat(v)
	if !ok {
		if s, isString := v.(string); isString && s != "" {
			return s
		}
		return ZeroNumber
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return humanize.Comma(int64(f))
	}
	return humanize.Commaf(math.Round(f*1000) / 1000)
}

// Date renders a server date in UTC as "Jan 2, 2006". Empty input yields
// "N/A"; input that cannot be parsed is returned unchanged.
func Date(v any) string {
	switch d := v.(type) {
	case nil:
		return NotAvailable
	case time.Time:
		if d.IsZero() {
			return NotAvailable
		}
		return d.UTC().Format(DisplayDateLayout)
	case *time.Time:
		if d == nil || d.IsZero() {
			return NotAvailable
		}
		return d.UTC().Format(DisplayDateLayout)
	}

	raw := strings.TrimSpace(toString(v))
	if raw == "" {
		return NotAvailable
	}
	t, err := ParseDate(raw)
	if err != nil {
		return raw
	}
	return t.Format(DisplayDateLayout)
}

// ParseDate parses any of the date shapes the backend returns and reports the
// result in UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// Text renders a value as plain text; nil yields "".
func Text(v any) string {
	if v == nil {
		return ""
	}
	if _, isStringer := v.(fmt.Stringer); !isStringer {
		if f, ok := v.(Floater); ok {
			return strconv.FormatFloat(f.Float64(), 'f', -1, 64)
		}
	}
	return toString(v)
}

// Label turns a snake_case key into a title-cased label:
// "first_name" -> "First Name". Letters after the first are left as they are.
func Label(key string) string {
	if key == "" {
		return ""
	}

	b := []byte(strings.ReplaceAll(key, "_", " "))
	for i := range b {
		if i > 0 && isWordByte(b[i-1]) {
			continue
		}
		if b[i] >= 'a' && b[i] <= 'z' {
			b[i] -= 'a' - 'A'
		}
	}
	return string(b)
}

// ToFloat extracts a float from the numeric shapes seen in backend payloads.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	case Floater:
		return n.Float64(), true
	default:
		return 0, false
	}
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case int:
		return x == 0
	case int64:
		return x == 0
	case float64:
		return x == 0 || math.IsNaN(x)
	default:
		return false
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
