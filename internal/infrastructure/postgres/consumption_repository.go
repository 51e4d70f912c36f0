package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ConsumptionRepository = (*ConsumptionRepo)(nil)

// ConsumptionRepo implementación de ConsumptionRepository sobre PostgreSQL.
type ConsumptionRepo struct {
	q Querier
}

// NewConsumptionRepository construye el adaptador de consumos por lote.
func NewConsumptionRepository(q Querier) *ConsumptionRepo {
	return &ConsumptionRepo{q: q}
}

// Create persiste un consumo que liga movimiento de salida con lote.
func (r *ConsumptionRepo) Create(ctx context.Context, c *entity.BatchConsumption) error {
	query := `
		INSERT INTO batch_consumptions (id, record_id, batch_id, batch_no, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, c.ID, c.RecordID, c.BatchID, c.BatchNo, c.Quantity, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert consumption: %w", err)
	}
	return nil
}

// ListByRecord lista los consumos de un movimiento de salida.
func (r *ConsumptionRepo) ListByRecord(ctx context.Context, recordID string) ([]*entity.BatchConsumption, error) {
	query := `
		SELECT id, record_id, batch_id, batch_no, quantity, created_at
		FROM batch_consumptions
		WHERE record_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, recordID)
	if err != nil {
		return nil, fmt.Errorf("list consumptions: %w", err)
	}
	defer rows.Close()

	var list []*entity.BatchConsumption
	for rows.Next() {
		var c entity.BatchConsumption
		if err := rows.Scan(&c.ID, &c.RecordID, &c.BatchID, &c.BatchNo, &c.Quantity, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan consumption: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
