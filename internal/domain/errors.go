package domain

import "errors"

// Errores de dominio (sin dependencias externas). Se comparan con errors.Is;
// los casos de uso los envuelven con %w para añadir cantidades y detalle.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStockDrift        = errors.New("el stock cambió desde la vista previa")
	ErrReconcileAborted  = errors.New("conciliación abortada")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrUserDisabled      = errors.New("usuario deshabilitado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)
