package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/odenstall/pos/internal/domain/models"
)

// ErrInvalidDate indicates a report date that is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("date must use the YYYY-MM-DD format")

// DailyStats sums the sales and stock-in costs recorded on date. It reads
// nothing but its arguments.
func DailyStats(sales []models.SaleRecord, stockLogs []models.StockInRecord, date string) models.DailyStats {
	stats := models.DailyStats{Date: date}

	for _, sale := range sales {
		if sale.Date == date {
			stats.Revenue += sale.Total
		}
	}
	for _, entry := range stockLogs {
		if entry.Date == date {
			stats.Cost += entry.Cost
		}
	}
	stats.Profit = stats.Revenue - stats.Cost

	return stats
}

// LedgerSource exposes the current ledgers.
type LedgerSource interface {
	Snapshot() models.State
	Today() string
}

// Archive stores computed daily reports.
type Archive interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// Service computes daily figures from the live ledgers.
type Service struct {
	source  LedgerSource
	archive Archive
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a new reporting service instance. archive may be nil.
func NewService(source LedgerSource, archive Archive, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, archive: archive, logger: logger, now: time.Now}
}

// Daily returns the stats for date; an empty date means today.
func (s *Service) Daily(date string) (models.DailyStats, error) {
	if date == "" {
		date = s.source.Today()
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return models.DailyStats{}, ErrInvalidDate
	}

	state := s.source.Snapshot()
	return DailyStats(state.Sales, state.StockLogs, date), nil
}

// ArchiveDaily stores the report for date in the archive, if one is configured.
func (s *Service) ArchiveDaily(ctx context.Context, date string) (models.DailyReport, error) {
	stats, err := s.Daily(date)
	if err != nil {
		return models.DailyReport{}, err
	}

	state := s.source.Snapshot()
	count := 0
	for _, sale := range state.Sales {
		if sale.Date == stats.Date {
			count++
		}
	}

	report := models.DailyReport{
		Date:       stats.Date,
		Revenue:    stats.Revenue,
		StockCost:  stats.Cost,
		Profit:     stats.Profit,
		SalesCount: count,
		CreatedAt:  s.now().UTC(),
	}

	if s.archive == nil {
		s.logger.Debug("report archive disabled", zap.String("date", report.Date))
		return report, nil
	}

	if err := s.archive.SaveDailyReport(ctx, report); err != nil {
		return models.DailyReport{}, fmt.Errorf("archive report %s: %w", report.Date, err)
	}

	s.logger.Info("daily report archived",
		zap.String("date", report.Date),
		zap.Float64("revenue", report.Revenue),
		zap.Float64("profit", report.Profit))
	return report, nil
}
