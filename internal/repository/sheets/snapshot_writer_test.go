package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/autobase/webfront/internal/domain/models"
)

// fakeSheet serves the two Values endpoints the repository uses.
type fakeSheet struct {
	mu       sync.Mutex
	header   [][]interface{}
	appended [][]interface{}
	ranges   []string
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/sheet-id/values/")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]any{"range": path, "values": f.header})
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
		f.ranges = append(f.ranges, strings.TrimSuffix(path, ":append"))
		var body sheetsapi.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.appended = append(f.appended, body.Values...)
		if len(f.header) == 0 && len(body.Values) > 0 {
			f.header = body.Values[:1]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-id"})
	default:
		http.NotFound(w, r)
	}
}

func newTestRepository(t *testing.T, handler http.Handler) *GoogleSheetRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := sheetsapi.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return NewWithService(svc, "sheet-id", nil)
}

func testSnapshot() models.ReportSnapshot {
	return models.ReportSnapshot{
		TakenAt:       time.Date(2024, 1, 20, 20, 0, 0, 0, time.UTC),
		TotalSales:    42500.5,
		OrderCount:    3,
		ServiceRev:    500,
		LaborHours:    4.5,
		PartsCost:     150,
		LowStockParts: 2,
		SalesByEmp: []models.EmployeeTotal{
			{EmployeeName: "Lee", TotalSales: 12500.5},
			{EmployeeName: "Kim", TotalSales: 30000},
		},
		Sources: map[string]string{"sales": "ok", "parts": "ok", "service": "timeout"},
	}
}

func TestSnapshotWriter_WritesHeaderOnce(t *testing.T) {
	sheet := &fakeSheet{}
	writer := NewSnapshotWriter(newTestRepository(t, sheet))

	require.NoError(t, writer.SaveSnapshot(context.Background(), testSnapshot()))
	require.NoError(t, writer.SaveSnapshot(context.Background(), testSnapshot()))

	require.Len(t, sheet.appended, 3)
	assert.Equal(t, "Taken At", sheet.appended[0][0])
	assert.Equal(t, []string{snapshotAppendRange, snapshotAppendRange}, sheet.ranges)

	row := sheet.appended[1]
	require.Len(t, row, 9)
	assert.Equal(t, "2024-01-20T20:00:00Z", row[0])
	assert.Equal(t, 42500.5, row[1])
	assert.Equal(t, float64(3), row[2])
	assert.Equal(t, "Kim", row[7])
	assert.Equal(t, "parts=ok; sales=ok; service=timeout", row[8])
}

func TestSnapshotWriter_ReadFailure(t *testing.T) {
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	}))

	err := NewSnapshotWriter(repo).SaveSnapshot(context.Background(), testSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check snapshot header")
}

func TestRepository_RejectsEmptyRange(t *testing.T) {
	repo := newTestRepository(t, &fakeSheet{})

	assert.ErrorIs(t, repo.AppendRows(context.Background(), "", []interface{}{"x"}), errEmptyRange)
	_, err := repo.ReadRange(context.Background(), "")
	assert.ErrorIs(t, err, errEmptyRange)
	assert.NoError(t, repo.AppendRows(context.Background(), snapshotAppendRange))
}

func TestTopSellerWithoutSales(t *testing.T) {
	assert.Equal(t, "", topSeller(nil))
}
