package entity

import "time"

// Contact representa una contraparte de movimientos: proveedor, cliente o ambos.
type Contact struct {
	ID         string
	Name       string
	Address    string
	Phone      string
	Email      string
	IsSupplier bool
	IsCustomer bool
	Notes      string
	Disabled   bool
	CreatedAt  time.Time
}
