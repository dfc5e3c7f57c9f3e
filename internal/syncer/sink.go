package syncer

import (
	"context"
	"fmt"

	"github.com/odenstall/pos/internal/domain/models"
	"github.com/odenstall/pos/internal/repository/sheets"
	"github.com/odenstall/pos/pkg/clients/appscript"
)

// Sink receives mirrored events. Implementations may fail; the dispatcher
// only logs the failure.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event models.SyncEvent) error
}

// AppScriptSink posts the raw event envelope to a Google Apps Script web app.
type AppScriptSink struct {
	client appscript.Client
}

// NewAppScriptSink wraps client.
func NewAppScriptSink(client appscript.Client) *AppScriptSink {
	return &AppScriptSink{client: client}
}

// Name implements Sink.
func (s *AppScriptSink) Name() string { return "appscript" }

// Deliver implements Sink.
func (s *AppScriptSink) Deliver(ctx context.Context, event models.SyncEvent) error {
	return s.client.Post(ctx, event)
}

// SheetsSink appends one spreadsheet row per event.
type SheetsSink struct {
	repo sheets.Repository
}

// NewSheetsSink wraps a sheets repository.
func NewSheetsSink(repo sheets.Repository) *SheetsSink {
	return &SheetsSink{repo: repo}
}

// Name implements Sink.
func (s *SheetsSink) Name() string { return "sheets" }

// Deliver implements Sink.
func (s *SheetsSink) Deliver(ctx context.Context, event models.SyncEvent) error {
	switch data := event.Data.(type) {
	case models.SaleRecord:
		return s.repo.AppendSale(ctx, data, event.Timestamp)
	case models.StockInRecord:
		return s.repo.AppendStockIn(ctx, data, event.Timestamp)
	case models.ConversionRecord:
		return s.repo.AppendConversion(ctx, data)
	default:
		return fmt.Errorf("no sheet row for %s event with %T payload", event.Type, event.Data)
	}
}
