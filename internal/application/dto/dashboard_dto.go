package dto

import "github.com/shopspring/decimal"

// DashboardSummary indicadores del día con variación respecto al día anterior.
type DashboardSummary struct {
	TotalStock    int64 `json:"total_stock"`
	MaterialCount int   `json:"material_count"`
	LowStockCount int   `json:"low_stock_count"`

	TodayIn  int64 `json:"today_in"`
	TodayOut int64 `json:"today_out"`

	// Variación día a día como proporción exacta (-1 = cayó todo, 1 = duplicó).
	// Nula cuando el día anterior no tuvo movimientos.
	InChangeRate  *decimal.Decimal `json:"in_change_rate"`
	OutChangeRate *decimal.Decimal `json:"out_change_rate"`
}

// CategoryShare porción de una categoría sobre el total de existencias.
type CategoryShare struct {
	Category string          `json:"category"`
	Total    int64           `json:"total"`
	Share    decimal.Decimal `json:"share"` // 0..1
}

// TrendPoint movimientos agregados de un día.
type TrendPoint struct {
	Date string `json:"date"` // YYYY-MM-DD
	In   int64  `json:"in"`
	Out  int64  `json:"out"`
}

// MaterialStatsResponse indicadores de un solo material: ficha, movimientos
// del día con variación respecto al anterior y acumulados históricos.
type MaterialStatsResponse struct {
	MaterialID  string `json:"material_id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Quantity    int64  `json:"quantity"`
	Unit        string `json:"unit"`
	SafeStock   int64  `json:"safe_stock"`
	Location    string `json:"location"`
	StockStatus string `json:"stock_status"`

	TodayIn  int64 `json:"today_in"`
	TodayOut int64 `json:"today_out"`

	// Misma semántica que en DashboardSummary: proporción exacta, nula cuando
	// el día anterior no tuvo movimientos.
	InChangeRate  *decimal.Decimal `json:"in_change_rate"`
	OutChangeRate *decimal.Decimal `json:"out_change_rate"`

	// Acumulados de todo el diario del material.
	TotalIn  int64 `json:"total_in"`
	TotalOut int64 `json:"total_out"`
}

// MaterialTrendResponse serie diaria de movimientos de un material.
type MaterialTrendResponse struct {
	MaterialID string       `json:"material_id"`
	SKU        string       `json:"sku"`
	Trend      []TrendPoint `json:"trend"`
}

// DashboardResponse tablero completo.
type DashboardResponse struct {
	Summary    DashboardSummary   `json:"summary"`
	Categories []CategoryShare    `json:"categories"`
	Trend      []TrendPoint       `json:"trend"`
	TopStock   []MaterialResponse `json:"top_stock"`
	LowStock   []MaterialResponse `json:"low_stock"`
}
