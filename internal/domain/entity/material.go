package entity

import "time"

// Material representa una referencia de almacén (SKU único).
// Quantity se muta exclusivamente vía el motor de stock (incremento/decremento
// guardado en una sola sentencia); nunca se borra, solo se deshabilita.
type Material struct {
	ID        string
	SKU       string // código único
	Name      string
	Category  string
	Quantity  int64 // unidades en existencia, siempre >= 0
	Unit      string
	SafeStock int64 // umbral de reposición
	Location  string
	Disabled  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BelowSafeStock indica si el material está por debajo de su umbral.
func (m *Material) BelowSafeStock() bool {
	return m.Quantity < m.SafeStock
}

// StockStatus clasifica la existencia frente al umbral: normal, warning
// (por debajo del umbral) o danger (por debajo del 50% del umbral).
func (m *Material) StockStatus() string {
	switch {
	case m.Quantity >= m.SafeStock:
		return "normal"
	case m.Quantity*2 >= m.SafeStock:
		return "warning"
	default:
		return "danger"
	}
}
