package entity

import "time"

// Batch representa un lote de entrada. Se crea exactamente una vez por cada
// entrada de stock con Quantity == InitialQuantity y de ahí en adelante solo
// se decrementa por consumo FIFO. Nunca se borra: es linaje permanente.
type Batch struct {
	ID              string
	BatchNo         string // "YYYYMMDD-SSS", único
	MaterialID      string
	Quantity        int64 // restante, 0 <= Quantity <= InitialQuantity
	InitialQuantity int64
	ContactID       *string // proveedor, opcional
	Exhausted       bool
	CreatedAt       time.Time
}

// BatchConsumption vincula una salida con el lote del que se extrajo.
// Inmutable una vez escrito; una fila por lote tocado en cada salida.
type BatchConsumption struct {
	ID        string
	RecordID  string // movimiento de salida
	BatchID   string
	BatchNo   string // denormalizado para respuesta/reporte
	Quantity  int64
	CreatedAt time.Time
}
