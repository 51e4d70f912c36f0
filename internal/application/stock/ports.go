package stock

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el decremento guardado, el
// consumo FIFO y el asiento del diario comparten una sola transacción: o se
// confirman juntos o se revierten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		matRepo repository.MaterialRepository,
		batchRepo repository.BatchRepository,
		consRepo repository.ConsumptionRepository,
		recRepo repository.InventoryRecordRepository,
	) error) error
}
