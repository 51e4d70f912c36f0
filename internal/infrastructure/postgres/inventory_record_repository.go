package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación de InventoryRecordRepository sobre PostgreSQL.
// El diario es append-only: solo hay INSERT y lecturas, nunca UPDATE ni DELETE.
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador del diario de movimientos.
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

// Create anota un movimiento en el diario.
func (r *InventoryRecordRepo) Create(ctx context.Context, rec *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_records (id, material_id, type, quantity, operator, operator_user_id, reason, contact_id, batch_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.MaterialID, rec.Type, rec.Quantity, rec.Operator,
		rec.OperatorUserID, rec.Reason, rec.ContactID, rec.BatchID, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory record: %w", err)
	}
	return nil
}

// List lista movimientos con filtros opcionales, más recientes primero.
func (r *InventoryRecordRepo) List(ctx context.Context, filter repository.RecordFilter) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT id, material_id, type, quantity, operator, operator_user_id, reason, contact_id, batch_id, created_at
		FROM inventory_records WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.MaterialID != "" {
		query += fmt.Sprintf(" AND material_id = $%d", pos)
		args = append(args, filter.MaterialID)
		pos++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at < $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory records: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.ID, &rec.MaterialID, &rec.Type, &rec.Quantity, &rec.Operator, &rec.OperatorUserID, &rec.Reason, &rec.ContactID, &rec.BatchID, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
