package http

import (
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func toMaterialDTO(m *entity.Material) *dto.MaterialResponse {
	if m == nil {
		return nil
	}
	return &dto.MaterialResponse{
		ID:          m.ID,
		SKU:         m.SKU,
		Name:        m.Name,
		Category:    m.Category,
		Quantity:    m.Quantity,
		Unit:        m.Unit,
		SafeStock:   m.SafeStock,
		Location:    m.Location,
		StockStatus: m.StockStatus(),
		Disabled:    m.Disabled,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
