package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// MaterialFilter filtros para listados de materiales. La búsqueda por texto
// no vive aquí: el plegado de tildes se hace en la capa de aplicación.
type MaterialFilter struct {
	Category        string
	IncludeDisabled bool
	Limit           int
	Offset          int
}

// MaterialRepository puerto de persistencia del registro de materiales.
// Las mutaciones de cantidad son sentencias guardadas de una sola pasada;
// nunca read-then-write.
type MaterialRepository interface {
	Create(ctx context.Context, m *entity.Material) error
	Update(ctx context.Context, m *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Material, error)
	GetByName(ctx context.Context, name string) (*entity.Material, error)
	List(ctx context.Context, filter MaterialFilter) ([]*entity.Material, error)

	// IncrementQuantity suma delta en una sola sentencia y devuelve la nueva
	// cantidad. Falla con domain.ErrNotFound si el material no existe o está
	// deshabilitado.
	IncrementQuantity(ctx context.Context, id string, delta int64) (int64, error)

	// DecrementQuantityGuarded resta qty solo si quantity >= qty (compare-and-
	// decrement en una sola sentencia). ok=false si la guarda rechazó la resta;
	// en ese caso newQuantity trae la cantidad actual releída.
	DecrementQuantityGuarded(ctx context.Context, id string, qty int64) (newQuantity int64, ok bool, err error)

	// SetDisabled marca o desmarca la deshabilitación lógica (soft-disable).
	SetDisabled(ctx context.Context, id string, disabled bool) error
}
