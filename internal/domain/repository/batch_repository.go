package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// BatchRepository puerto del libro de lotes. Los lotes se crean solo en
// entradas y solo se decrementan después; jamás se borran.
type BatchRepository interface {
	Create(ctx context.Context, b *entity.Batch) error

	// NextDailySequence devuelve el siguiente consecutivo del día (1, 2, ...)
	// mediante un contador incrementado atómicamente por fecha, de modo que
	// entradas concurrentes del mismo día nunca colisionen en batch_no.
	NextDailySequence(ctx context.Context, day string) (int, error)

	// ListOpenForUpdate devuelve los lotes no agotados del material en orden
	// FIFO (created_at ascendente) bloqueando las filas dentro de la tx.
	ListOpenForUpdate(ctx context.Context, materialID string) ([]*entity.Batch, error)

	// ApplyConsumption fija la cantidad restante tras un consumo y marca el
	// lote como agotado cuando llega a cero.
	ApplyConsumption(ctx context.Context, batchID string, remaining int64, exhausted bool) error

	ListByMaterial(ctx context.Context, materialID string) ([]*entity.Batch, error)
}

// ConsumptionRepository puerto de la tabla append-only de consumos por lote.
type ConsumptionRepository interface {
	Create(ctx context.Context, c *entity.BatchConsumption) error
	ListByRecord(ctx context.Context, recordID string) ([]*entity.BatchConsumption, error)
}
