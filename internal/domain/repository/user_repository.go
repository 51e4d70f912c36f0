package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// UserRepository puerto de cuentas de usuario (solo lectura para login y
// resolución de operador; la gestión de usuarios queda fuera del servicio).
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}
