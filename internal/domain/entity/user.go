package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin   = "admin"
	RoleOperate = "operate"
	RoleView    = "view"
)

// User cuenta de acceso a la API. La gestión de usuarios queda fuera del
// alcance del servicio; aquí solo se usa para login y auditoría de operador.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt
	DisplayName  string
	Role         string
	Disabled     bool
	CreatedAt    time.Time
}
