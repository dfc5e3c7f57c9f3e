package models

// DateLayout is the calendar date format used by every ledger record.
const DateLayout = "2006-01-02"

// SaleRecord captures one completed checkout.
type SaleRecord struct {
	ID    int64   `json:"id"`
	Date  string  `json:"date"`
	Items string  `json:"items"`
	Total float64 `json:"total"`
}

// StockInRecord captures a purchase of raw material. Cost is the total paid
// for the delivery, i.e. unit cost times amount.
type StockInRecord struct {
	ID     int64   `json:"id"`
	Date   string  `json:"date"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Cost   float64 `json:"cost"`
}

// ConversionRecord describes a conversion of ingredient stock into product
// units. It is only mirrored to the sync sinks and never kept locally.
type ConversionRecord struct {
	Type    string `json:"type"`
	Product string `json:"product"`
	Amount  int    `json:"amount"`
	Date    string `json:"date"`
}
