package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ContactRepository puerto de contrapartes (proveedores/clientes).
type ContactRepository interface {
	Create(ctx context.Context, c *entity.Contact) error
	Update(ctx context.Context, c *entity.Contact) error
	GetByID(ctx context.Context, id string) (*entity.Contact, error)
	List(ctx context.Context, includeDisabled bool) ([]*entity.Contact, error)
}
