// Package analytics contiene los casos de uso de solo lectura del tablero de
// inventario.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const (
	dashboardTopMaterials = 5 // materiales en el widget de mayor existencia
	dashboardLowStockMax  = 10
	dashboardTrendDays    = 7
)

// MaterialReader porción de lectura del registro de materiales que necesitan
// los indicadores por material.
type MaterialReader interface {
	GetByID(ctx context.Context, id string) (*entity.Material, error)
}

// DashboardUseCase genera el resumen del tablero (indicadores del día,
// distribución por categoría, tendencia de movimientos y listas de materiales)
// y los indicadores por material.
//
// Fuente de datos: DashboardRepository (consultas read-only); nunca muta stock.
type DashboardUseCase struct {
	dashboards repository.DashboardRepository
	materials  MaterialReader
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(dashboards repository.DashboardRepository, materials MaterialReader) *DashboardUseCase {
	return &DashboardUseCase{dashboards: dashboards, materials: materials}
}

// GetSummary construye el tablero completo.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardResponse, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24 * time.Hour)
	yesterdayStart := todayStart.Add(-24 * time.Hour)

	totalStock, err := uc.dashboards.TotalStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: existencias totales: %w", err)
	}
	materialCount, err := uc.dashboards.MaterialCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: conteo de materiales: %w", err)
	}
	lowStockCount, err := uc.dashboards.LowStockCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: conteo de stock bajo: %w", err)
	}

	todayIn, err := uc.dashboards.MovementTotal(ctx, entity.MovementIn, todayStart, todayEnd)
	if err != nil {
		return nil, fmt.Errorf("dashboard: entradas de hoy: %w", err)
	}
	todayOut, err := uc.dashboards.MovementTotal(ctx, entity.MovementOut, todayStart, todayEnd)
	if err != nil {
		return nil, fmt.Errorf("dashboard: salidas de hoy: %w", err)
	}
	yesterdayIn, err := uc.dashboards.MovementTotal(ctx, entity.MovementIn, yesterdayStart, todayStart)
	if err != nil {
		return nil, fmt.Errorf("dashboard: entradas de ayer: %w", err)
	}
	yesterdayOut, err := uc.dashboards.MovementTotal(ctx, entity.MovementOut, yesterdayStart, todayStart)
	if err != nil {
		return nil, fmt.Errorf("dashboard: salidas de ayer: %w", err)
	}

	categories, err := uc.dashboards.CategoryDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: distribución por categoría: %w", err)
	}

	trend, err := uc.trend(ctx, todayStart)
	if err != nil {
		return nil, err
	}

	top, err := uc.dashboards.TopByQuantity(ctx, dashboardTopMaterials)
	if err != nil {
		return nil, fmt.Errorf("dashboard: mayores existencias: %w", err)
	}
	low, err := uc.dashboards.LowStockList(ctx, dashboardLowStockMax)
	if err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", err)
	}

	res := &dto.DashboardResponse{
		Summary: dto.DashboardSummary{
			TotalStock:    totalStock,
			MaterialCount: materialCount,
			LowStockCount: lowStockCount,
			TodayIn:       todayIn,
			TodayOut:      todayOut,
			InChangeRate:  changeRate(todayIn, yesterdayIn),
			OutChangeRate: changeRate(todayOut, yesterdayOut),
		},
		Categories: make([]dto.CategoryShare, 0, len(categories)),
		Trend:      trend,
		TopStock:   toMaterials(top),
		LowStock:   toMaterials(low),
	}
	for _, ct := range categories {
		res.Categories = append(res.Categories, dto.CategoryShare{
			Category: ct.Category,
			Total:    ct.Total,
			Share:    ct.Share.Round(4),
		})
	}
	return res, nil
}

// trend agrega entradas y salidas por día para los últimos dashboardTrendDays
// días, incluido hoy.
func (uc *DashboardUseCase) trend(ctx context.Context, todayStart time.Time) ([]dto.TrendPoint, error) {
	points := make([]dto.TrendPoint, 0, dashboardTrendDays)
	for i := dashboardTrendDays - 1; i >= 0; i-- {
		dayStart := todayStart.Add(-time.Duration(i) * 24 * time.Hour)
		dayEnd := dayStart.Add(24 * time.Hour)
		in, err := uc.dashboards.MovementTotal(ctx, entity.MovementIn, dayStart, dayEnd)
		if err != nil {
			return nil, fmt.Errorf("dashboard: tendencia de entradas: %w", err)
		}
		out, err := uc.dashboards.MovementTotal(ctx, entity.MovementOut, dayStart, dayEnd)
		if err != nil {
			return nil, fmt.Errorf("dashboard: tendencia de salidas: %w", err)
		}
		points = append(points, dto.TrendPoint{
			Date: dayStart.Format("2006-01-02"),
			In:   in,
			Out:  out,
		})
	}
	return points, nil
}

// changeRate variación día a día como proporción exacta. Nula cuando el día
// anterior no tuvo movimientos (la división no está definida).
func changeRate(today, yesterday int64) *decimal.Decimal {
	if yesterday == 0 {
		return nil
	}
	rate := decimal.NewFromInt(today - yesterday).
		Div(decimal.NewFromInt(yesterday)).
		Round(4)
	return &rate
}

func toMaterials(list []*entity.Material) []dto.MaterialResponse {
	out := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MaterialResponse{
			ID:          m.ID,
			SKU:         m.SKU,
			Name:        m.Name,
			Category:    m.Category,
			Quantity:    m.Quantity,
			Unit:        m.Unit,
			SafeStock:   m.SafeStock,
			Location:    m.Location,
			StockStatus: m.StockStatus(),
			Disabled:    m.Disabled,
			CreatedAt:   m.CreatedAt,
			UpdatedAt:   m.UpdatedAt,
		})
	}
	return out
}
