package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// GetMaterialStats indicadores de un solo material: ficha, entradas y salidas
// de hoy con variación respecto a ayer, y acumulados de todo el diario.
func (uc *DashboardUseCase) GetMaterialStats(ctx context.Context, materialID string) (*dto.MaterialStatsResponse, error) {
	mat, err := uc.materials.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if mat == nil {
		return nil, fmt.Errorf("%w: material %s", domain.ErrNotFound, materialID)
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24 * time.Hour)
	yesterdayStart := todayStart.Add(-24 * time.Hour)

	todayIn, err := uc.dashboards.MaterialMovementTotal(ctx, mat.ID, entity.MovementIn, todayStart, todayEnd)
	if err != nil {
		return nil, fmt.Errorf("material stats: entradas de hoy: %w", err)
	}
	todayOut, err := uc.dashboards.MaterialMovementTotal(ctx, mat.ID, entity.MovementOut, todayStart, todayEnd)
	if err != nil {
		return nil, fmt.Errorf("material stats: salidas de hoy: %w", err)
	}
	yesterdayIn, err := uc.dashboards.MaterialMovementTotal(ctx, mat.ID, entity.MovementIn, yesterdayStart, todayStart)
	if err != nil {
		return nil, fmt.Errorf("material stats: entradas de ayer: %w", err)
	}
	yesterdayOut, err := uc.dashboards.MaterialMovementTotal(ctx, mat.ID, entity.MovementOut, yesterdayStart, todayStart)
	if err != nil {
		return nil, fmt.Errorf("material stats: salidas de ayer: %w", err)
	}

	// Acumulados históricos: desde el origen del diario hasta el fin de hoy.
	totalIn, err := uc.dashboards.MaterialMovementTotal(ctx, mat.ID, entity.MovementIn, time.Time{}, todayEnd)
	if err != nil {
		return nil, fmt.Errorf("material stats: entradas acumuladas: %w", err)
	}
	totalOut, err := uc.dashboards.MaterialMovementTotal(ctx, mat.ID, entity.MovementOut, time.Time{}, todayEnd)
	if err != nil {
		return nil, fmt.Errorf("material stats: salidas acumuladas: %w", err)
	}

	return &dto.MaterialStatsResponse{
		MaterialID:    mat.ID,
		SKU:           mat.SKU,
		Name:          mat.Name,
		Quantity:      mat.Quantity,
		Unit:          mat.Unit,
		SafeStock:     mat.SafeStock,
		Location:      mat.Location,
		StockStatus:   mat.StockStatus(),
		TodayIn:       todayIn,
		TodayOut:      todayOut,
		InChangeRate:  changeRate(todayIn, yesterdayIn),
		OutChangeRate: changeRate(todayOut, yesterdayOut),
		TotalIn:       totalIn,
		TotalOut:      totalOut,
	}, nil
}

// GetMaterialTrend serie de los últimos dashboardTrendDays días para un
// material, incluido hoy.
func (uc *DashboardUseCase) GetMaterialTrend(ctx context.Context, materialID string) (*dto.MaterialTrendResponse, error) {
	mat, err := uc.materials.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if mat == nil {
		return nil, fmt.Errorf("%w: material %s", domain.ErrNotFound, materialID)
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	points := make([]dto.TrendPoint, 0, dashboardTrendDays)
	for i := dashboardTrendDays - 1; i >= 0; i-- {
		dayStart := todayStart.Add(-time.Duration(i) * 24 * time.Hour)
		dayEnd := dayStart.Add(24 * time.Hour)
		in, err := uc.dashboards.MaterialMovementTotal(ctx, mat.ID, entity.MovementIn, dayStart, dayEnd)
		if err != nil {
			return nil, fmt.Errorf("material trend: entradas: %w", err)
		}
		out, err := uc.dashboards.MaterialMovementTotal(ctx, mat.ID, entity.MovementOut, dayStart, dayEnd)
		if err != nil {
			return nil, fmt.Errorf("material trend: salidas: %w", err)
		}
		points = append(points, dto.TrendPoint{
			Date: dayStart.Format("2006-01-02"),
			In:   in,
			Out:  out,
		})
	}

	return &dto.MaterialTrendResponse{
		MaterialID: mat.ID,
		SKU:        mat.SKU,
		Trend:      points,
	}, nil
}
