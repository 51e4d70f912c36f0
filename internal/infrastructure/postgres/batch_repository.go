package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes.
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un lote nuevo.
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	query := `
		INSERT INTO batches (id, batch_no, material_id, quantity, initial_quantity, contact_id, exhausted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.BatchNo, b.MaterialID, b.Quantity, b.InitialQuantity, b.ContactID, b.Exhausted, b.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: lote %q", domain.ErrDuplicate, b.BatchNo)
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// NextDailySequence reserva atómicamente el siguiente correlativo del día.
// El upsert sobre batch_counters serializa las entradas concurrentes:
// nunca se emite el mismo número de lote dos veces.
func (r *BatchRepo) NextDailySequence(ctx context.Context, day string) (int, error) {
	query := `
		INSERT INTO batch_counters (day, seq)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET seq = batch_counters.seq + 1
		RETURNING seq`
	var seq int
	if err := r.q.QueryRow(ctx, query, day).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next daily sequence: %w", err)
	}
	return seq, nil
}

// ListOpenForUpdate devuelve los lotes con saldo del material, más antiguos
// primero, bloqueados con FOR UPDATE para que el consumo FIFO sea estable
// frente a salidas concurrentes.
func (r *BatchRepo) ListOpenForUpdate(ctx context.Context, materialID string) ([]*entity.Batch, error) {
	query := `
		SELECT id, batch_no, material_id, quantity, initial_quantity, contact_id, exhausted, created_at
		FROM batches
		WHERE material_id = $1 AND exhausted = FALSE AND quantity > 0
		ORDER BY created_at ASC, id ASC
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, materialID)
	if err != nil {
		return nil, fmt.Errorf("list open batches: %w", err)
	}
	defer rows.Close()

	var list []*entity.Batch
	for rows.Next() {
		var b entity.Batch
		if err := rows.Scan(&b.ID, &b.BatchNo, &b.MaterialID, &b.Quantity, &b.InitialQuantity, &b.ContactID, &b.Exhausted, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// ApplyConsumption fija el saldo restante del lote y su marca de agotado.
func (r *BatchRepo) ApplyConsumption(ctx context.Context, batchID string, remaining int64, exhausted bool) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE batches SET quantity = $2, exhausted = $3 WHERE id = $1`,
		batchID, remaining, exhausted,
	)
	if err != nil {
		return fmt.Errorf("apply consumption: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: lote %s", domain.ErrNotFound, batchID)
	}
	return nil
}

// ListByMaterial lista los lotes de un material, más recientes primero.
func (r *BatchRepo) ListByMaterial(ctx context.Context, materialID string) ([]*entity.Batch, error) {
	query := `
		SELECT id, batch_no, material_id, quantity, initial_quantity, contact_id, exhausted, created_at
		FROM batches
		WHERE material_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, materialID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var list []*entity.Batch
	for rows.Next() {
		var b entity.Batch
		if err := rows.Scan(&b.ID, &b.BatchNo, &b.MaterialID, &b.Quantity, &b.InitialQuantity, &b.ContactID, &b.Exhausted, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
