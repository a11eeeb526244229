// Package report renders backend records as tables, card grids and workbooks
// from an explicit column list. Every column names its own formatter.
package report

import (
	"fmt"
	"strings"

	"github.com/autobase/webfront/internal/format"
)

// DefaultLimit caps card grids.
const DefaultLimit = 20

// EmptyText is shown for sections with no records.
const EmptyText = "No data available"

// Record is anything the renderer can pull fields out of.
type Record interface {
	Field(key string) (any, bool)
}

// Records adapts a typed slice for the renderer.
func Records[T Record](items []T) []Record {
	out := make([]Record, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// Formatter turns a field value into display text.
type Formatter func(v any) string

// Formatters available to columns.
var (
	Text     Formatter = format.Text
	Currency Formatter = format.Currency
	Date     Formatter = format.Date
	Number   Formatter = format.Number
)

// Column describes one rendered column. Key defaults to the label lower-cased
// with spaces turned into underscores; when a record has no such field the
// label itself is tried.
type Column struct {
	Label  string
	Key    string
	Format Formatter
}

// DefaultKey derives a lookup key from a column label.
func DefaultKey(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "_")
}

// Value pulls the column's raw value out of r, nil when absent.
func (c Column) Value(r Record) any {
	key := c.Key
	if key == "" {
		key = DefaultKey(c.Label)
	}
	if v, ok := r.Field(key); ok {
		return v
	}
	if key != c.Label {
		if v, ok := r.Field(c.Label); ok {
			return v
		}
	}
	return nil
}

// Cell renders the column for r.
func (c Column) Cell(r Record) string {
	f := c.Format
	if f == nil {
		f = Text
	}
	return f(c.Value(r))
}

// Table is a column layout shared by the table, card and workbook renderings.
type Table struct {
	Columns []Column
	// CardTitle names a card; DefaultCardTitle is used when nil.
	CardTitle func(Record) string
	Empty     string
}

// Grid is a rendered table.
type Grid struct {
	Headers []string
	Rows    [][]string
	Empty   string
}

// Card is one record rendered as a titled single-row table.
type Card struct {
	Title   string
	Headers []string
	Cells   []string
}

// CardGrid is a bounded list of cards.
type CardGrid struct {
	Cards []Card
	Total int
	Empty string
}

// Truncated reports whether records were left out.
func (g CardGrid) Truncated() bool {
	return g.Total > len(g.Cards)
}

// Note is the overflow notice shown under a truncated grid.
func (g CardGrid) Note() string {
	if !g.Truncated() {
		return ""
	}
	return fmt.Sprintf("Showing %d of %d results.", len(g.Cards), g.Total)
}

// Headers returns the column labels.
func (t Table) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Label
	}
	return out
}

func (t Table) emptyText() string {
	if t.Empty != "" {
		return t.Empty
	}
	return EmptyText
}

func (t Table) row(r Record) []string {
	cells := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cells[i] = c.Cell(r)
	}
	return cells
}

// Rows renders every record as a table row.
func (t Table) Rows(records []Record) Grid {
	g := Grid{Headers: t.Headers(), Rows: make([][]string, 0, len(records)), Empty: t.emptyText()}
	for _, r := range records {
		g.Rows = append(g.Rows, t.row(r))
	}
	return g
}

// Cards renders at most limit records as cards. A limit of zero or less uses
// DefaultLimit.
func (t Table) Cards(records []Record, limit int) CardGrid {
	if limit <= 0 {
		limit = DefaultLimit
	}
	shown := records
	if len(shown) > limit {
		shown = shown[:limit]
	}

	title := t.CardTitle
	if title == nil {
		title = DefaultCardTitle
	}

	g := CardGrid{Total: len(records), Empty: t.emptyText(), Cards: make([]Card, 0, len(shown))}
	headers := t.Headers()
	for _, r := range shown {
		g.Cards = append(g.Cards, Card{Title: title(r), Headers: headers, Cells: t.row(r)})
	}
	return g
}

// DefaultCardTitle names a card after its employee, its name or its date, in
// that order.
func DefaultCardTitle(r Record) string {
	for _, key := range []string{"employee_name", "Name"} {
		if v, ok := r.Field(key); ok {
			if s := format.Text(v); s != "" {
				return s
			}
		}
	}
	if v, ok := r.Field("date"); ok {
		return format.Date(v)
	}
	return "Item"
}
