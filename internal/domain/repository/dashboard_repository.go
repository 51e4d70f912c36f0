package repository

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CategoryTotal existencias agregadas por categoría. Share es la proporción
// sobre el total (0..1) calculada en SQL con precisión exacta.
type CategoryTotal struct {
	Category string
	Total    int64
	Share    decimal.Decimal
}

// DashboardRepository consultas de solo lectura para el tablero. El núcleo
// garantiza que estas tablas nunca quedan en un estado que viole el invariante
// cantidad == suma de lotes no agotados tras un commit exitoso.
type DashboardRepository interface {
	// TotalStock suma las existencias de todos los materiales habilitados.
	TotalStock(ctx context.Context) (int64, error)

	// MovementTotal suma las cantidades movidas de un tipo en [from, to).
	MovementTotal(ctx context.Context, movementType string, from, to time.Time) (int64, error)

	// MaterialMovementTotal igual que MovementTotal pero para un solo material.
	MaterialMovementTotal(ctx context.Context, materialID, movementType string, from, to time.Time) (int64, error)

	LowStockCount(ctx context.Context) (int, error)
	MaterialCount(ctx context.Context) (int, error)
	CategoryDistribution(ctx context.Context) ([]CategoryTotal, error)
	TopByQuantity(ctx context.Context, limit int) ([]*entity.Material, error)
	LowStockList(ctx context.Context, limit int) ([]*entity.Material, error)
}
