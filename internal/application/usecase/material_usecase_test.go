package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

type fakeMaterialRepo struct {
	items      []*entity.Material
	lastFilter repository.MaterialFilter
}

func (f *fakeMaterialRepo) Create(_ context.Context, m *entity.Material) error {
	for _, it := range f.items {
		if it.SKU == m.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *m
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeMaterialRepo) Update(_ context.Context, m *entity.Material) error {
	for i, it := range f.items {
		if it.ID == m.ID {
			cp := *m
			f.items[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeMaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	for _, it := range f.items {
		if it.ID == id {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMaterialRepo) GetBySKU(_ context.Context, sku string) (*entity.Material, error) {
	for _, it := range f.items {
		if it.SKU == sku {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMaterialRepo) GetByName(_ context.Context, name string) (*entity.Material, error) {
	for _, it := range f.items {
		if it.Name == name {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMaterialRepo) List(_ context.Context, filter repository.MaterialFilter) ([]*entity.Material, error) {
	f.lastFilter = filter
	var out []*entity.Material
	for _, it := range f.items {
		if !filter.IncludeDisabled && it.Disabled {
			continue
		}
		if filter.Category != "" && it.Category != filter.Category {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeMaterialRepo) IncrementQuantity(_ context.Context, id string, delta int64) (int64, error) {
	for _, it := range f.items {
		if it.ID == id && !it.Disabled {
			it.Quantity += delta
			return it.Quantity, nil
		}
	}
	return 0, domain.ErrNotFound
}

func (f *fakeMaterialRepo) DecrementQuantityGuarded(_ context.Context, id string, qty int64) (int64, bool, error) {
	for _, it := range f.items {
		if it.ID == id {
			if it.Quantity < qty {
				return it.Quantity, false, nil
			}
			it.Quantity -= qty
			return it.Quantity, true, nil
		}
	}
	return 0, false, domain.ErrNotFound
}

func (f *fakeMaterialRepo) SetDisabled(_ context.Context, id string, disabled bool) error {
	for _, it := range f.items {
		if it.ID == id {
			it.Disabled = disabled
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeBatchRepo struct{}

func (f *fakeBatchRepo) Create(context.Context, *entity.Batch) error { return nil }
func (f *fakeBatchRepo) NextDailySequence(context.Context, string) (int, error) {
	return 1, nil
}
func (f *fakeBatchRepo) ListOpenForUpdate(context.Context, string) ([]*entity.Batch, error) {
	return nil, nil
}
func (f *fakeBatchRepo) ApplyConsumption(context.Context, string, int64, bool) error { return nil }
func (f *fakeBatchRepo) ListByMaterial(context.Context, string) ([]*entity.Batch, error) {
	return nil, nil
}

func seedRepo() *fakeMaterialRepo {
	return &fakeMaterialRepo{items: []*entity.Material{
		{ID: "m1", SKU: "MAT-1", Name: "Almacén central", Category: "insumos"},
		{ID: "m2", SKU: "MAT-2", Name: "Tornillos", Category: "ferretería"},
		{ID: "m3", SKU: "CAB-9", Name: "Cable de cobre", Category: "ferretería"},
	}}
}

func TestList_BusquedaInsensibleATildes(t *testing.T) {
	repo := seedRepo()
	uc := usecase.NewMaterialUseCase(repo, &fakeBatchRepo{})

	out, err := uc.List(context.Background(), "almacen", "", false, 20, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Almacén central", out.Items[0].Name)

	// También sobre el SKU, sin importar mayúsculas.
	out, err = uc.List(context.Background(), "mat-", "", false, 20, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
}

func TestList_BusquedaPaginaEnMemoria(t *testing.T) {
	repo := seedRepo()
	uc := usecase.NewMaterialUseCase(repo, &fakeBatchRepo{})

	out, err := uc.List(context.Background(), "mat-", "", false, 1, 1)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "MAT-2", out.Items[0].SKU)

	// Con búsqueda activa el repositorio entrega candidatos sin paginar;
	// el recorte ocurre después del plegado de tildes.
	assert.Zero(t, repo.lastFilter.Limit)
	assert.Zero(t, repo.lastFilter.Offset)
}

func TestList_SinBusquedaDelegaPaginado(t *testing.T) {
	repo := seedRepo()
	uc := usecase.NewMaterialUseCase(repo, &fakeBatchRepo{})

	out, err := uc.List(context.Background(), "", "ferretería", false, 1, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)

	assert.Equal(t, "ferretería", repo.lastFilter.Category)
	assert.Equal(t, 1, repo.lastFilter.Limit)
}
