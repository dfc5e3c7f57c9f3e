package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/odenstall/pos/internal/config"
	"github.com/odenstall/pos/internal/domain/models"
)

// Tabs of the ledger spreadsheet. Each mirrored record becomes one row.
const (
	SalesRange       = "Sales!A:D"
	StockInRange     = "StockIn!A:E"
	ConversionsRange = "Conversions!A:C"
)

// Repository mirrors ledger records into a spreadsheet.
type Repository interface {
	AppendSale(ctx context.Context, sale models.SaleRecord, timestamp string) error
	AppendStockIn(ctx context.Context, record models.StockInRecord, timestamp string) error
	AppendConversion(ctx context.Context, record models.ConversionRecord) error
}

var _ Repository = (*GoogleSheetRepository)(nil)

type appendFunc func(ctx context.Context, sheetRange string, row []interface{}) error

// GoogleSheetRepository implements Repository with the Google Sheets API.
type GoogleSheetRepository struct {
	appendRow appendFunc
	logger    *zap.Logger
}

// NewGoogleSheetRepository authenticates with the service-account file in cfg.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return newRepository(valuesAppender(service, cfg.SpreadsheetID), logger), nil
}

func newRepository(fn appendFunc, logger *zap.Logger) *GoogleSheetRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleSheetRepository{appendRow: fn, logger: logger}
}

func valuesAppender(service *sheetsapi.Service, spreadsheetID string) appendFunc {
	return func(ctx context.Context, sheetRange string, row []interface{}) error {
		payload := &sheetsapi.ValueRange{Values: [][]interface{}{row}}

		_, err := service.Spreadsheets.Values.Append(spreadsheetID, sheetRange, payload).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		return err
	}
}

// AppendSale writes date, items, total and the mirror timestamp.
func (r *GoogleSheetRepository) AppendSale(ctx context.Context, sale models.SaleRecord, timestamp string) error {
	return r.append(ctx, SalesRange, []interface{}{sale.Date, sale.Items, sale.Total, timestamp})
}

// AppendStockIn writes date, ingredient, amount, cost and the mirror timestamp.
func (r *GoogleSheetRepository) AppendStockIn(ctx context.Context, record models.StockInRecord, timestamp string) error {
	return r.append(ctx, StockInRange, []interface{}{record.Date, record.Name, record.Amount, record.Cost, timestamp})
}

// AppendConversion writes date, product and produced units.
func (r *GoogleSheetRepository) AppendConversion(ctx context.Context, record models.ConversionRecord) error {
	return r.append(ctx, ConversionsRange, []interface{}{record.Date, record.Product, record.Amount})
}

func (r *GoogleSheetRepository) append(ctx context.Context, sheetRange string, row []interface{}) error {
	if err := r.appendRow(ctx, sheetRange, row); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}
