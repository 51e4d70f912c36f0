package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/textnorm"
)

// MaterialUseCase casos de uso CRUD para materiales. Quantity no se toca aquí:
// las existencias solo cambian vía el motor de stock.
type MaterialUseCase struct {
	materials repository.MaterialRepository
	batches   repository.BatchRepository
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(materials repository.MaterialRepository, batches repository.BatchRepository) *MaterialUseCase {
	return &MaterialUseCase{materials: materials, batches: batches}
}

// Create crea un material nuevo con existencia cero.
func (uc *MaterialUseCase) Create(ctx context.Context, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: sku y name son requeridos", domain.ErrInvalidInput)
	}
	if in.SafeStock < 0 {
		return nil, fmt.Errorf("%w: safe_stock no puede ser negativo", domain.ErrInvalidInput)
	}
	now := time.Now()
	mat := &entity.Material{
		ID:        uuid.New().String(),
		SKU:       in.SKU,
		Name:      in.Name,
		Category:  in.Category,
		Quantity:  0,
		Unit:      in.Unit,
		SafeStock: in.SafeStock,
		Location:  in.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.materials.Create(ctx, mat); err != nil {
		return nil, err
	}
	return toMaterialResponse(mat), nil
}

// GetByID obtiene un material por ID.
func (uc *MaterialUseCase) GetByID(ctx context.Context, id string) (*dto.MaterialResponse, error) {
	mat, err := uc.materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mat == nil {
		return nil, nil
	}
	return toMaterialResponse(mat), nil
}

// Update actualiza datos maestros. No permite modificar Quantity ni SKU.
func (uc *MaterialUseCase) Update(ctx context.Context, id string, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	mat, err := uc.materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mat == nil {
		return nil, nil
	}
	if in.Name != nil {
		mat.Name = *in.Name
	}
	if in.Category != nil {
		mat.Category = *in.Category
	}
	if in.Unit != nil {
		mat.Unit = *in.Unit
	}
	if in.SafeStock != nil {
		if *in.SafeStock < 0 {
			return nil, fmt.Errorf("%w: safe_stock no puede ser negativo", domain.ErrInvalidInput)
		}
		mat.SafeStock = *in.SafeStock
	}
	if in.Location != nil {
		mat.Location = *in.Location
	}
	mat.UpdatedAt = time.Now()
	if err := uc.materials.Update(ctx, mat); err != nil {
		return nil, err
	}
	return toMaterialResponse(mat), nil
}

// List lista materiales. La búsqueda por texto es insensible a mayúsculas y a
// tildes, así que el recorte se hace en memoria sobre los candidatos del filtro.
func (uc *MaterialUseCase) List(ctx context.Context, query, category string, includeDisabled bool, limit, offset int) (*dto.MaterialListResponse, error) {
	filter := repository.MaterialFilter{
		Category:        category,
		IncludeDisabled: includeDisabled,
	}
	if query == "" {
		filter.Limit = limit
		filter.Offset = offset
	}
	list, err := uc.materials.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if query != "" {
		var matched []*entity.Material
		for _, m := range list {
			if textnorm.Contains(m.Name, query) || textnorm.Contains(m.SKU, query) {
				matched = append(matched, m)
			}
		}
		list = paginate(matched, limit, offset)
	}

	items := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMaterialResponse(m))
	}
	return &dto.MaterialListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// SetDisabled deshabilita o rehabilita un material. La deshabilitación es
// lógica: el historial y los lotes se conservan.
func (uc *MaterialUseCase) SetDisabled(ctx context.Context, id string, disabled bool) error {
	return uc.materials.SetDisabled(ctx, id, disabled)
}

// Batches lista los lotes de un material, más recientes primero.
func (uc *MaterialUseCase) Batches(ctx context.Context, materialID string) ([]dto.BatchResponse, error) {
	mat, err := uc.materials.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if mat == nil {
		return nil, fmt.Errorf("%w: material %s", domain.ErrNotFound, materialID)
	}
	batches, err := uc.batches.ListByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, toBatchResponse(b))
	}
	return out, nil
}

func paginate(list []*entity.Material, limit, offset int) []*entity.Material {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func toMaterialResponse(m *entity.Material) *dto.MaterialResponse {
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

func toBatchResponse(b *entity.Batch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:              b.ID,
		BatchNo:         b.BatchNo,
		MaterialID:      b.MaterialID,
		Quantity:        b.Quantity,
		InitialQuantity: b.InitialQuantity,
		ContactID:       b.ContactID,
		Exhausted:       b.Exhausted,
		CreatedAt:       b.CreatedAt,
	}
}
