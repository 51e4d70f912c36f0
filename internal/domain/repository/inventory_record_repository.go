package repository

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// RecordFilter filtros para listados del diario de movimientos.
type RecordFilter struct {
	MaterialID string
	Type       string // "", "in" o "out"
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// InventoryRecordRepository puerto del diario de movimientos (append-only).
type InventoryRecordRepository interface {
	Create(ctx context.Context, r *entity.InventoryRecord) error
	List(ctx context.Context, filter RecordFilter) ([]*entity.InventoryRecord, error)
}
