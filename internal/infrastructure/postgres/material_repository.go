package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, sku, name, category, quantity, unit, safe_stock, location, is_disabled, created_at, updated_at`

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador de materiales. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// Create persiste un material nuevo. SKU duplicado -> domain.ErrDuplicate.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	query := `
		INSERT INTO materials (` + materialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.SKU, m.Name, m.Category, m.Quantity, m.Unit,
		m.SafeStock, m.Location, m.Disabled, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sku %q", domain.ErrDuplicate, m.SKU)
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// Update actualiza los datos maestros. La cantidad no se toca aquí: solo vía
// IncrementQuantity / DecrementQuantityGuarded.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) error {
	query := `
		UPDATE materials
		SET name = $2, category = $3, unit = $4, safe_stock = $5, location = $6, updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, m.ID, m.Name, m.Category, m.Unit, m.SafeStock, m.Location)
	if err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: material %s", domain.ErrNotFound, m.ID)
	}
	return nil
}

// GetByID obtiene un material por ID. Devuelve nil, nil si no existe.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	return r.getBy(ctx, "id", id)
}

// GetBySKU obtiene un material por SKU. Devuelve nil, nil si no existe.
func (r *MaterialRepo) GetBySKU(ctx context.Context, sku string) (*entity.Material, error) {
	return r.getBy(ctx, "sku", sku)
}

// GetByName obtiene un material por nombre exacto. Devuelve nil, nil si no existe.
func (r *MaterialRepo) GetByName(ctx context.Context, name string) (*entity.Material, error) {
	return r.getBy(ctx, "name", name)
}

func (r *MaterialRepo) getBy(ctx context.Context, col, val string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE ` + col + ` = $1`
	m, err := scanMaterial(r.q.QueryRow(ctx, query, val))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material by %s: %w", col, err)
	}
	return m, nil
}

// List lista materiales con filtros opcionales, ordenados por nombre.
func (r *MaterialRepo) List(ctx context.Context, filter repository.MaterialFilter) ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE 1=1`
	args := []any{}
	pos := 1
	if !filter.IncludeDisabled {
		query += " AND is_disabled = FALSE"
	}
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", pos)
		args = append(args, filter.Category)
		pos++
	}
	query += " ORDER BY name ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
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

// IncrementQuantity suma delta en una sola sentencia guardada y devuelve la
// nueva cantidad. No es read-then-write: entradas concurrentes no se pisan.
func (r *MaterialRepo) IncrementQuantity(ctx context.Context, id string, delta int64) (int64, error) {
	query := `
		UPDATE materials
		SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1 AND is_disabled = FALSE
		RETURNING quantity`
	var newQty int64
	err := r.q.QueryRow(ctx, query, id, delta).Scan(&newQty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: material %s", domain.ErrNotFound, id)
		}
		return 0, fmt.Errorf("increment quantity: %w", err)
	}
	return newQty, nil
}

// DecrementQuantityGuarded resta qty solo si hay existencia suficiente
// (compare-and-decrement). Si la guarda rechaza, relee la cantidad actual y
// devuelve ok=false sin mutar nada.
func (r *MaterialRepo) DecrementQuantityGuarded(ctx context.Context, id string, qty int64) (int64, bool, error) {
	query := `
		UPDATE materials
		SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2
		RETURNING quantity`
	var newQty int64
	err := r.q.QueryRow(ctx, query, id, qty).Scan(&newQty)
	if err == nil {
		return newQty, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, fmt.Errorf("decrement quantity: %w", err)
	}

	// Cero filas afectadas: stock insuficiente o material inexistente.
	var current int64
	err = r.q.QueryRow(ctx, `SELECT quantity FROM materials WHERE id = $1`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, fmt.Errorf("%w: material %s", domain.ErrNotFound, id)
		}
		return 0, false, fmt.Errorf("reread quantity: %w", err)
	}
	return current, false, nil
}

// SetDisabled marca o desmarca la deshabilitación lógica.
func (r *MaterialRepo) SetDisabled(ctx context.Context, id string, disabled bool) error {
	cmd, err := r.q.Exec(ctx, `UPDATE materials SET is_disabled = $2, updated_at = now() WHERE id = $1`, id, disabled)
	if err != nil {
		return fmt.Errorf("set disabled: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: material %s", domain.ErrNotFound, id)
	}
	return nil
}

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(
		&m.ID, &m.SKU, &m.Name, &m.Category, &m.Quantity, &m.Unit,
		&m.SafeStock, &m.Location, &m.Disabled, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
