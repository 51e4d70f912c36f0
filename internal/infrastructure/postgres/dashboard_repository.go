package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de agregación de solo lectura para el tablero.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador del tablero.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// TotalStock suma las existencias de todos los materiales habilitados.
func (r *DashboardRepo) TotalStock(ctx context.Context) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM materials WHERE is_disabled = FALSE`,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total stock: %w", err)
	}
	return total, nil
}

// MovementTotal suma las cantidades movidas de un tipo en [from, to).
func (r *DashboardRepo) MovementTotal(ctx context.Context, movementType string, from, to time.Time) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM inventory_records
		WHERE type = $1 AND created_at >= $2 AND created_at < $3`,
		movementType, from, to,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("movement total: %w", err)
	}
	return total, nil
}

// MaterialMovementTotal igual que MovementTotal pero acotado a un material.
func (r *DashboardRepo) MaterialMovementTotal(ctx context.Context, materialID, movementType string, from, to time.Time) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM inventory_records
		WHERE material_id = $1 AND type = $2 AND created_at >= $3 AND created_at < $4`,
		materialID, movementType, from, to,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("material movement total: %w", err)
	}
	return total, nil
}

// LowStockCount cuenta los materiales habilitados por debajo de su stock de seguridad.
func (r *DashboardRepo) LowStockCount(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM materials WHERE is_disabled = FALSE AND safe_stock > 0 AND quantity < safe_stock`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("low stock count: %w", err)
	}
	return count, nil
}

// MaterialCount cuenta los materiales habilitados del registro.
func (r *DashboardRepo) MaterialCount(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM materials WHERE is_disabled = FALSE`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("material count: %w", err)
	}
	return count, nil
}

// CategoryDistribution agrega existencias por categoría con su proporción
// exacta sobre el total, calculada en SQL como numeric.
func (r *DashboardRepo) CategoryDistribution(ctx context.Context) ([]repository.CategoryTotal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT COALESCE(NULLIF(category, ''), 'sin categoría') AS cat,
		       SUM(quantity) AS total,
		       CASE WHEN SUM(SUM(quantity)) OVER () = 0 THEN 0::numeric
		            ELSE SUM(quantity)::numeric / SUM(SUM(quantity)) OVER ()
		       END AS share
		FROM materials
		WHERE is_disabled = FALSE
		GROUP BY cat
		ORDER BY total DESC`)
	if err != nil {
		return nil, fmt.Errorf("category distribution: %w", err)
	}
	defer rows.Close()

	var list []repository.CategoryTotal
	for rows.Next() {
		var ct repository.CategoryTotal
		var share decimal.Decimal
		if err := rows.Scan(&ct.Category, &ct.Total, &share); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		ct.Share = share
		list = append(list, ct)
	}
	return list, rows.Err()
}

// TopByQuantity devuelve los materiales con más existencias.
func (r *DashboardRepo) TopByQuantity(ctx context.Context, limit int) ([]*entity.Material, error) {
	query := `
		SELECT ` + materialColumns + `
		FROM materials
		WHERE is_disabled = FALSE
		ORDER BY quantity DESC, name ASC
		LIMIT $1`
	return r.listMaterials(ctx, query, limit)
}

// LowStockList devuelve los materiales por debajo de su stock de seguridad,
// los más desabastecidos primero.
func (r *DashboardRepo) LowStockList(ctx context.Context, limit int) ([]*entity.Material, error) {
	query := `
		SELECT ` + materialColumns + `
		FROM materials
		WHERE is_disabled = FALSE AND safe_stock > 0 AND quantity < safe_stock
		ORDER BY (safe_stock - quantity) DESC, name ASC
		LIMIT $1`
	return r.listMaterials(ctx, query, limit)
}

func (r *DashboardRepo) listMaterials(ctx context.Context, query string, args ...any) ([]*entity.Material, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dashboard materials: %w", err)
	}
	defer rows.Close()

	var list []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
