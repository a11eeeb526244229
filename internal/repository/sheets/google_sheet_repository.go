package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/autobase/webfront/internal/config"
)

var errEmptyRange = errors.New("sheet range must not be empty")

// Repository is the slice of the Sheets values API the snapshot writer needs.
type Repository interface {
	AppendRows(ctx context.Context, sheetRange string, rows ...[]interface{}) error
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// GoogleSheetRepository reads and appends values in one spreadsheet.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository authenticates with the service account file from
// cfg.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	service, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("init sheets client: %w", err)
	}

	return NewWithService(service, cfg.SpreadsheetID, logger), nil
}

// NewWithService wraps an existing Sheets API service.
func NewWithService(service *sheetsapi.Service, spreadsheetID string, logger *zap.Logger) *GoogleSheetRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: spreadsheetID,
		logger:        logger,
	}
}

// AppendRows adds rows below the last row of sheetRange in a single call.
// Values are interpreted as if typed by a user, so numbers stay numbers.
func (r *GoogleSheetRepository) AppendRows(ctx context.Context, sheetRange string, rows ...[]interface{}) error {
	if sheetRange == "" {
		return errEmptyRange
	}
	if len(rows) == 0 {
		return nil
	}

	_, err := r.service.Spreadsheets.Values.
		Append(r.spreadsheetID, sheetRange, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %d rows to %s: %w", len(rows), sheetRange, err)
	}

	r.logger.Debug("rows appended", zap.String("range", sheetRange), zap.Int("rows", len(rows)))
	return nil
}

// ReadRange returns the values in sheetRange; an empty range yields no rows.
func (r *GoogleSheetRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, errEmptyRange
	}

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheetRange, err)
	}
	return resp.Values, nil
}
