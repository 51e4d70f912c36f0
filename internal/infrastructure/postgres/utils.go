package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos de error de PostgreSQL que el almacén traduce a errores de dominio.
const pgCodeUniqueViolation = "23505"

// isUniqueViolation indica si el error proviene de un constraint único
// (SKU de material o batch_no duplicado).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCodeUniqueViolation
}
