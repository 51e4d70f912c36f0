package dto

import "github.com/jhoicas/almacen-api/internal/application/reconcile"

// ImportConfirmRequest confirmación del diff calculado en la vista previa.
// Las filas viajan de vuelta tal como las devolvió el preview: current_quantity
// es el token de concurrencia optimista por fila.
type ImportConfirmRequest struct {
	Changes                   []reconcile.Change `json:"changes"`
	Reason                    string             `json:"reason"`
	Operator                  string             `json:"operator"`
	ConfirmNewSKUs            bool               `json:"confirm_new_skus"`
	ConfirmDisableMissingSKUs bool               `json:"confirm_disable_missing_skus"`
}
