package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Ensure TxRunner implements stock.TxRunner.
var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. La transacción es corta: nunca se sostiene a través de
// I/O externo ni de esperas de usuario.
func (r *TxRunner) Run(ctx context.Context, fn func(
	matRepo repository.MaterialRepository,
	batchRepo repository.BatchRepository,
	consRepo repository.ConsumptionRepository,
	recRepo repository.InventoryRecordRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	matRepo := NewMaterialRepository(tx)
	batchRepo := NewBatchRepository(tx)
	consRepo := NewConsumptionRepository(tx)
	recRepo := NewInventoryRecordRepository(tx)

	if err := fn(matRepo, batchRepo, consRepo, recRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
