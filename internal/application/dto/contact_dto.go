package dto

import "time"

// CreateContactRequest alta de contraparte (proveedor, cliente o ambos).
type CreateContactRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	IsSupplier bool   `json:"is_supplier"`
	IsCustomer bool   `json:"is_customer"`
	Notes      string `json:"notes"`
}

// UpdateContactRequest actualización parcial de una contraparte.
type UpdateContactRequest struct {
	Name       *string `json:"name"`
	Address    *string `json:"address"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	IsSupplier *bool   `json:"is_supplier"`
	IsCustomer *bool   `json:"is_customer"`
	Notes      *string `json:"notes"`
	Disabled   *bool   `json:"disabled"`
}

// ContactResponse contraparte de movimientos.
type ContactResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	IsSupplier bool      `json:"is_supplier"`
	IsCustomer bool      `json:"is_customer"`
	Notes      string    `json:"notes"`
	Disabled   bool      `json:"disabled"`
	CreatedAt  time.Time `json:"created_at"`
}
