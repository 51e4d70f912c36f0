package entity

import "time"

// Direcciones de movimiento de inventario.
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// InventoryRecord es el asiento del diario de movimientos: una fila por cada
// entrada o salida. Append-only; nunca se actualiza ni se borra.
// BatchID solo se asigna en entradas; una salida puede abarcar varios lotes y
// ese detalle vive en batch_consumptions.
type InventoryRecord struct {
	ID             string
	MaterialID     string
	Type           string // MovementIn | MovementOut
	Quantity       int64  // siempre > 0; el signo lo da Type
	Operator       string
	OperatorUserID *string
	Reason         string
	ContactID      *string
	BatchID        *string
	CreatedAt      time.Time
}
