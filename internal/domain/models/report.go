package models

import "time"

// DailyStats is the revenue, stock cost and profit of a single calendar day.
type DailyStats struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	Profit  float64 `json:"profit"`
}

// DailyReport represents the archived daily figures stored in MongoDB.
type DailyReport struct {
	Date       string    `bson:"date" json:"date"`
	Revenue    float64   `bson:"revenue" json:"revenue"`
	StockCost  float64   `bson:"stock_cost" json:"stock_cost"`
	Profit     float64   `bson:"profit" json:"profit"`
	SalesCount int       `bson:"sales_count" json:"sales_count"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
