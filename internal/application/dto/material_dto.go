package dto

import "time"

// CreateMaterialRequest alta de material. La cantidad inicial es siempre cero:
// las existencias solo cambian vía entradas y salidas.
type CreateMaterialRequest struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Unit      string `json:"unit"`
	SafeStock int64  `json:"safe_stock"`
	Location  string `json:"location"`
}

// UpdateMaterialRequest actualización parcial de datos maestros. No permite
// modificar Quantity (se maneja vía movimientos) ni SKU.
type UpdateMaterialRequest struct {
	Name      *string `json:"name"`
	Category  *string `json:"category"`
	Unit      *string `json:"unit"`
	SafeStock *int64  `json:"safe_stock"`
	Location  *string `json:"location"`
}

// MaterialResponse material con su estado de stock derivado.
type MaterialResponse struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Quantity    int64     `json:"quantity"`
	Unit        string    `json:"unit"`
	SafeStock   int64     `json:"safe_stock"`
	Location    string    `json:"location"`
	StockStatus string    `json:"stock_status"` // normal | warning | danger
	Disabled    bool      `json:"disabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MaterialListResponse listado paginado de materiales.
type MaterialListResponse struct {
	Items []MaterialResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// BatchResponse lote de entrada con su saldo.
type BatchResponse struct {
	ID              string    `json:"id"`
	BatchNo         string    `json:"batch_no"`
	MaterialID      string    `json:"material_id"`
	Quantity        int64     `json:"quantity"`
	InitialQuantity int64     `json:"initial_quantity"`
	ContactID       *string   `json:"contact_id"`
	Exhausted       bool      `json:"exhausted"`
	CreatedAt       time.Time `json:"created_at"`
}
