package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// movimiento del diario simplificado para las agregaciones de prueba.
type movement struct {
	materialID string
	typ        string
	at         time.Time
	qty        int64
}

type fakeDashboardRepo struct {
	movements []movement
}

func (f *fakeDashboardRepo) TotalStock(context.Context) (int64, error) { return 0, nil }

func (f *fakeDashboardRepo) MovementTotal(_ context.Context, typ string, from, to time.Time) (int64, error) {
	var total int64
	for _, mv := range f.movements {
		if mv.typ == typ && !mv.at.Before(from) && mv.at.Before(to) {
			total += mv.qty
		}
	}
	return total, nil
}

func (f *fakeDashboardRepo) MaterialMovementTotal(_ context.Context, materialID, typ string, from, to time.Time) (int64, error) {
	var total int64
	for _, mv := range f.movements {
		if mv.materialID == materialID && mv.typ == typ && !mv.at.Before(from) && mv.at.Before(to) {
			total += mv.qty
		}
	}
	return total, nil
}

func (f *fakeDashboardRepo) LowStockCount(context.Context) (int, error) { return 0, nil }
func (f *fakeDashboardRepo) MaterialCount(context.Context) (int, error) { return 0, nil }
func (f *fakeDashboardRepo) CategoryDistribution(context.Context) ([]repository.CategoryTotal, error) {
	return nil, nil
}
func (f *fakeDashboardRepo) TopByQuantity(context.Context, int) ([]*entity.Material, error) {
	return nil, nil
}
func (f *fakeDashboardRepo) LowStockList(context.Context, int) ([]*entity.Material, error) {
	return nil, nil
}

type fakeMaterialReader struct {
	items map[string]*entity.Material
}

func (f *fakeMaterialReader) GetByID(_ context.Context, id string) (*entity.Material, error) {
	m, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

// dayAt un instante dentro del día hoy+offset.
func dayAt(offset int) time.Time {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start.Add(time.Duration(offset)*24*time.Hour + 10*time.Hour)
}

func newStatsUseCase(movs []movement, mats ...*entity.Material) *analytics.DashboardUseCase {
	reader := &fakeMaterialReader{items: make(map[string]*entity.Material)}
	for _, m := range mats {
		reader.items[m.ID] = m
	}
	return analytics.NewDashboardUseCase(&fakeDashboardRepo{movements: movs}, reader)
}

func TestMaterialStats_CalculaIndicadoresDelMaterial(t *testing.T) {
	mat := &entity.Material{ID: "m1", SKU: "MAT-1", Name: "Tornillos", Quantity: 40, Unit: "caja", SafeStock: 10}
	movs := []movement{
		{materialID: "m1", typ: entity.MovementIn, at: dayAt(0), qty: 12},
		{materialID: "m1", typ: entity.MovementIn, at: dayAt(-1), qty: 8},
		{materialID: "m1", typ: entity.MovementOut, at: dayAt(0), qty: 5},
		{materialID: "m1", typ: entity.MovementIn, at: dayAt(-3), qty: 100},
		// Movimientos de otro material: no deben contaminar los indicadores.
		{materialID: "m2", typ: entity.MovementIn, at: dayAt(0), qty: 999},
		{materialID: "m2", typ: entity.MovementOut, at: dayAt(-1), qty: 999},
	}

	out, err := newStatsUseCase(movs, mat).GetMaterialStats(context.Background(), "m1")
	require.NoError(t, err)

	assert.Equal(t, "m1", out.MaterialID)
	assert.Equal(t, "MAT-1", out.SKU)
	assert.Equal(t, int64(40), out.Quantity)
	assert.Equal(t, "normal", out.StockStatus)

	assert.Equal(t, int64(12), out.TodayIn)
	assert.Equal(t, int64(5), out.TodayOut)
	require.NotNil(t, out.InChangeRate)
	assert.True(t, out.InChangeRate.Equal(decimal.RequireFromString("0.5")), "got %s", out.InChangeRate)
	// Ayer no hubo salidas: la variación no está definida.
	assert.Nil(t, out.OutChangeRate)

	assert.Equal(t, int64(120), out.TotalIn)
	assert.Equal(t, int64(5), out.TotalOut)
}

func TestMaterialStats_MaterialInexistente(t *testing.T) {
	uc := newStatsUseCase(nil)
	_, err := uc.GetMaterialStats(context.Background(), "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = uc.GetMaterialTrend(context.Background(), "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMaterialTrend_UltimosSieteDias(t *testing.T) {
	mat := &entity.Material{ID: "m1", SKU: "MAT-1", Name: "Tornillos"}
	movs := []movement{
		{materialID: "m1", typ: entity.MovementIn, at: dayAt(0), qty: 4},
		{materialID: "m1", typ: entity.MovementOut, at: dayAt(-2), qty: 7},
		// Fuera de la ventana de 7 días: no aparece en la serie.
		{materialID: "m1", typ: entity.MovementIn, at: dayAt(-8), qty: 99},
	}

	out, err := newStatsUseCase(movs, mat).GetMaterialTrend(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, out.Trend, 7)

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	assert.Equal(t, today.Add(-6*24*time.Hour).Format("2006-01-02"), out.Trend[0].Date)
	assert.Equal(t, today.Format("2006-01-02"), out.Trend[6].Date)

	var totalIn, totalOut int64
	for _, p := range out.Trend {
		totalIn += p.In
		totalOut += p.Out
	}
	assert.Equal(t, int64(4), totalIn)
	assert.Equal(t, int64(7), totalOut)
	assert.Equal(t, int64(7), out.Trend[4].Out)
	assert.Equal(t, int64(4), out.Trend[6].In)
}
