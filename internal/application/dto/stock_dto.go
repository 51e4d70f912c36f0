package dto

import "time"

// StockInRequest entrada de stock. El material se identifica por material_id,
// sku o name (en ese orden de preferencia).
type StockInRequest struct {
	MaterialID string `json:"material_id"`
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
	Reason     string `json:"reason"`
	Operator   string `json:"operator"`
	ContactID  string `json:"contact_id"` // proveedor, opcional
}

// StockOutRequest salida de stock.
type StockOutRequest struct {
	MaterialID string `json:"material_id"`
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
	Reason     string `json:"reason"`
	Operator   string `json:"operator"`
	ContactID  string `json:"contact_id"` // cliente, opcional
}

// StockInResponse resultado de una entrada con el lote creado.
type StockInResponse struct {
	Material    MaterialResponse `json:"material"`
	OldQuantity int64            `json:"old_quantity"`
	NewQuantity int64            `json:"new_quantity"`
	Batch       BatchResponse    `json:"batch"`
}

// ConsumptionResponse porción de una salida atribuida a un lote.
type ConsumptionResponse struct {
	BatchNo  string `json:"batch_no"`
	Quantity int64  `json:"quantity"`
}

// StockOutResponse resultado de una salida. Warning es un aviso no bloqueante
// de stock bajo; untracked_remainder > 0 indica la porción sin cobertura de lotes.
type StockOutResponse struct {
	Material           MaterialResponse      `json:"material"`
	OldQuantity        int64                 `json:"old_quantity"`
	NewQuantity        int64                 `json:"new_quantity"`
	Consumptions       []ConsumptionResponse `json:"consumptions"`
	Warning            string                `json:"warning,omitempty"`
	UntrackedRemainder int64                 `json:"untracked_remainder,omitempty"`
}

// RecordResponse asiento del diario de movimientos.
type RecordResponse struct {
	ID             string    `json:"id"`
	MaterialID     string    `json:"material_id"`
	Type           string    `json:"type"` // in | out
	Quantity       int64     `json:"quantity"`
	Operator       string    `json:"operator"`
	OperatorUserID *string   `json:"operator_user_id"`
	Reason         string    `json:"reason"`
	ContactID      *string   `json:"contact_id"`
	BatchID        *string   `json:"batch_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// RecordListResponse listado paginado de movimientos.
type RecordListResponse struct {
	Items []RecordResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
