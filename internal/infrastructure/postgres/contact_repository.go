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

var _ repository.ContactRepository = (*ContactRepo)(nil)

const contactColumns = `id, name, address, phone, email, is_supplier, is_customer, notes, is_disabled, created_at`

// ContactRepo implementación de ContactRepository sobre PostgreSQL.
type ContactRepo struct {
	q Querier
}

// NewContactRepository construye el adaptador de contactos.
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

// Create persiste un contacto nuevo.
func (r *ContactRepo) Create(ctx context.Context, c *entity.Contact) error {
	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Address, c.Phone, c.Email, c.IsSupplier, c.IsCustomer, c.Notes, c.Disabled, c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: contacto %q", domain.ErrDuplicate, c.Name)
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// Update actualiza un contacto existente.
func (r *ContactRepo) Update(ctx context.Context, c *entity.Contact) error {
	query := `
		UPDATE contacts
		SET name = $2, address = $3, phone = $4, email = $5,
		    is_supplier = $6, is_customer = $7, notes = $8, is_disabled = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Address, c.Phone, c.Email, c.IsSupplier, c.IsCustomer, c.Notes, c.Disabled,
	)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: contacto %s", domain.ErrNotFound, c.ID)
	}
	return nil
}

// GetByID obtiene un contacto por ID. Devuelve nil, nil si no existe.
func (r *ContactRepo) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	var c entity.Contact
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email, &c.IsSupplier, &c.IsCustomer, &c.Notes, &c.Disabled, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &c, nil
}

// List lista contactos ordenados por nombre.
func (r *ContactRepo) List(ctx context.Context, includeDisabled bool) ([]*entity.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts`
	if !includeDisabled {
		query += " WHERE is_disabled = FALSE"
	}
	query += " ORDER BY name ASC"

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var list []*entity.Contact
	for rows.Next() {
		var c entity.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email, &c.IsSupplier, &c.IsCustomer, &c.Notes, &c.Disabled, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
