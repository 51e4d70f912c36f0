package stock_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los repositorios y del TxRunner
// ──────────────────────────────────────────────────────────────────────────────

type fakeMaterialRepo struct {
	mats map[string]*entity.Material // por ID
}

func newFakeMaterialRepo(mats ...*entity.Material) *fakeMaterialRepo {
	r := &fakeMaterialRepo{mats: make(map[string]*entity.Material)}
	for _, m := range mats {
		cp := *m
		r.mats[m.ID] = &cp
	}
	return r
}

func (r *fakeMaterialRepo) Create(_ context.Context, m *entity.Material) error {
	for _, ex := range r.mats {
		if ex.SKU == m.SKU {
			return fmt.Errorf("%w: sku %q", domain.ErrDuplicate, m.SKU)
		}
	}
	cp := *m
	r.mats[m.ID] = &cp
	return nil
}

func (r *fakeMaterialRepo) Update(_ context.Context, m *entity.Material) error {
	if _, ok := r.mats[m.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *m
	r.mats[m.ID] = &cp
	return nil
}

func (r *fakeMaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	m, ok := r.mats[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMaterialRepo) GetBySKU(_ context.Context, sku string) (*entity.Material, error) {
	for _, m := range r.mats {
		if m.SKU == sku {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMaterialRepo) GetByName(_ context.Context, name string) (*entity.Material, error) {
	for _, m := range r.mats {
		if m.Name == name {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMaterialRepo) List(_ context.Context, filter repository.MaterialFilter) ([]*entity.Material, error) {
	var out []*entity.Material
	for _, m := range r.mats {
		if m.Disabled && !filter.IncludeDisabled {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeMaterialRepo) IncrementQuantity(_ context.Context, id string, delta int64) (int64, error) {
	m, ok := r.mats[id]
	if !ok || m.Disabled {
		return 0, fmt.Errorf("%w: material %s", domain.ErrNotFound, id)
	}
	m.Quantity += delta
	return m.Quantity, nil
}

func (r *fakeMaterialRepo) DecrementQuantityGuarded(_ context.Context, id string, qty int64) (int64, bool, error) {
	m, ok := r.mats[id]
	if !ok {
		return 0, false, fmt.Errorf("%w: material %s", domain.ErrNotFound, id)
	}
	if m.Quantity < qty {
		return m.Quantity, false, nil
	}
	m.Quantity -= qty
	return m.Quantity, true, nil
}

func (r *fakeMaterialRepo) SetDisabled(_ context.Context, id string, disabled bool) error {
	m, ok := r.mats[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Disabled = disabled
	return nil
}

type fakeBatchRepo struct {
	batches []*entity.Batch
	seq     map[string]int
}

func newFakeBatchRepo(batches ...*entity.Batch) *fakeBatchRepo {
	r := &fakeBatchRepo{seq: make(map[string]int)}
	for _, b := range batches {
		cp := *b
		r.batches = append(r.batches, &cp)
	}
	return r
}

func (r *fakeBatchRepo) Create(_ context.Context, b *entity.Batch) error {
	cp := *b
	r.batches = append(r.batches, &cp)
	return nil
}

func (r *fakeBatchRepo) NextDailySequence(_ context.Context, day string) (int, error) {
	r.seq[day]++
	return r.seq[day], nil
}

func (r *fakeBatchRepo) ListOpenForUpdate(_ context.Context, materialID string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.batches {
		if b.MaterialID == materialID && !b.Exhausted && b.Quantity > 0 {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) ApplyConsumption(_ context.Context, batchID string, remaining int64, exhausted bool) error {
	for _, b := range r.batches {
		if b.ID == batchID {
			b.Quantity = remaining
			b.Exhausted = exhausted
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeBatchRepo) ListByMaterial(_ context.Context, materialID string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.batches {
		if b.MaterialID == materialID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) byNo(no string) *entity.Batch {
	for _, b := range r.batches {
		if b.BatchNo == no {
			return b
		}
	}
	return nil
}

type fakeConsumptionRepo struct {
	items []*entity.BatchConsumption
}

func (r *fakeConsumptionRepo) Create(_ context.Context, c *entity.BatchConsumption) error {
	cp := *c
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeConsumptionRepo) ListByRecord(_ context.Context, recordID string) ([]*entity.BatchConsumption, error) {
	var out []*entity.BatchConsumption
	for _, c := range r.items {
		if c.RecordID == recordID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeRecordRepo struct {
	records []*entity.InventoryRecord
}

func (r *fakeRecordRepo) Create(_ context.Context, rec *entity.InventoryRecord) error {
	cp := *rec
	r.records = append(r.records, &cp)
	return nil
}

func (r *fakeRecordRepo) List(_ context.Context, _ repository.RecordFilter) ([]*entity.InventoryRecord, error) {
	return r.records, nil
}

// fakeTx pasa los fakes directamente al callback. No simula rollback: los
// casos de fallo se verifican porque la guarda rechaza antes de escribir.
type fakeTx struct {
	mats    *fakeMaterialRepo
	batches *fakeBatchRepo
	cons    *fakeConsumptionRepo
	records *fakeRecordRepo
}

func (t *fakeTx) Run(_ context.Context, fn func(
	repository.MaterialRepository,
	repository.BatchRepository,
	repository.ConsumptionRepository,
	repository.InventoryRecordRepository,
) error) error {
	return fn(t.mats, t.batches, t.cons, t.records)
}

func newEngine(mats *fakeMaterialRepo, batches *fakeBatchRepo) (*stock.Service, *fakeTx) {
	tx := &fakeTx{
		mats:    mats,
		batches: batches,
		cons:    &fakeConsumptionRepo{},
		records: &fakeRecordRepo{},
	}
	return stock.NewService(tx, logger.Nop()), tx
}

func material(id, sku string, qty, safe int64) *entity.Material {
	return &entity.Material{
		ID:        id,
		SKU:       sku,
		Name:      "Material " + sku,
		Quantity:  qty,
		Unit:      "ud",
		SafeStock: safe,
	}
}

func batch(id, no, materialID string, qty int64, createdAt time.Time) *entity.Batch {
	return &entity.Batch{
		ID:              id,
		BatchNo:         no,
		MaterialID:      materialID,
		Quantity:        qty,
		InitialQuantity: qty,
		CreatedAt:       createdAt,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas
// ──────────────────────────────────────────────────────────────────────────────

func TestStockIn_CreaLoteYAsiento(t *testing.T) {
	mats := newFakeMaterialRepo(material("m1", "SKU-1", 10, 0))
	batches := newFakeBatchRepo()
	engine, tx := newEngine(mats, batches)

	res, err := engine.StockIn(context.Background(), stock.StockInInput{
		Material: stock.MaterialRef{ID: "m1"},
		Quantity: 5,
		Operator: "laura",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), res.OldQuantity)
	assert.Equal(t, int64(15), res.NewQuantity)
	assert.Equal(t, int64(15), mats.mats["m1"].Quantity)

	// Exactamente un lote, numerado con el día actual y correlativo 001.
	require.Len(t, batches.batches, 1)
	wantNo := time.Now().Format("20060102") + "-001"
	assert.Equal(t, wantNo, res.Batch.BatchNo)
	assert.Equal(t, int64(5), res.Batch.Quantity)
	assert.Equal(t, int64(5), res.Batch.InitialQuantity)

	// Asiento en el diario referenciando el lote.
	require.Len(t, tx.records.records, 1)
	rec := tx.records.records[0]
	assert.Equal(t, entity.MovementIn, rec.Type)
	assert.Equal(t, int64(5), rec.Quantity)
	assert.Equal(t, "laura", rec.Operator)
	require.NotNil(t, rec.BatchID)
	assert.Equal(t, res.Batch.ID, *rec.BatchID)
}

func TestStockIn_SecuenciaDiariaIncrementa(t *testing.T) {
	mats := newFakeMaterialRepo(material("m1", "SKU-1", 0, 0))
	batches := newFakeBatchRepo()
	engine, _ := newEngine(mats, batches)

	for i := 1; i <= 3; i++ {
		res, err := engine.StockIn(context.Background(), stock.StockInInput{
			Material: stock.MaterialRef{ID: "m1"},
			Quantity: 1,
		})
		require.NoError(t, err)
		want := fmt.Sprintf("%s-%03d", time.Now().Format("20060102"), i)
		assert.Equal(t, want, res.Batch.BatchNo)
	}
}

func TestStockIn_CantidadInvalida(t *testing.T) {
	mats := newFakeMaterialRepo(material("m1", "SKU-1", 10, 0))
	batches := newFakeBatchRepo()
	engine, tx := newEngine(mats, batches)

	for _, qty := range []int64{0, -3} {
		_, err := engine.StockIn(context.Background(), stock.StockInInput{
			Material: stock.MaterialRef{ID: "m1"},
			Quantity: qty,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
	assert.Empty(t, batches.batches, "una entrada inválida no debe crear lotes")
	assert.Empty(t, tx.records.records, "una entrada inválida no debe asentar movimientos")
	assert.Equal(t, int64(10), mats.mats["m1"].Quantity)
}

func TestStockIn_ResuelvePorSKU(t *testing.T) {
	mats := newFakeMaterialRepo(material("m1", "SKU-1", 0, 0))
	engine, _ := newEngine(mats, newFakeBatchRepo())

	res, err := engine.StockIn(context.Background(), stock.StockInInput{
		Material: stock.MaterialRef{SKU: "SKU-1"},
		Quantity: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", res.Material.ID)
	assert.Equal(t, int64(7), res.NewQuantity)
}

func TestStockIn_MaterialDeshabilitado(t *testing.T) {
	m := material("m1", "SKU-1", 0, 0)
	m.Disabled = true
	engine, _ := newEngine(newFakeMaterialRepo(m), newFakeBatchRepo())

	_, err := engine.StockIn(context.Background(), stock.StockInInput{
		Material: stock.MaterialRef{ID: "m1"},
		Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockIn_MaterialInexistente(t *testing.T) {
	engine, _ := newEngine(newFakeMaterialRepo(), newFakeBatchRepo())

	_, err := engine.StockIn(context.Background(), stock.StockInInput{
		Material: stock.MaterialRef{SKU: "NO-EXISTE"},
		Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestStockOut_ConsumeUnSoloLote(t *testing.T) {
	base := time.Now().Add(-48 * time.Hour)
	mats := newFakeMaterialRepo(material("m1", "SKU-1", 55, 0))
	batches := newFakeBatchRepo(
		batch("b1", "20260830-001", "m1", 30, base),
		batch("b2", "20260831-001", "m1", 25, base.Add(24*time.Hour)),
	)
	engine, _ := newEngine(mats, batches)

	res, err := engine.StockOut(context.Background(), stock.StockOutInput{
		Material: stock.MaterialRef{ID: "m1"},
		Quantity: 25,
	})
	require.NoError(t, err)

	// Solo el lote más antiguo pierde saldo.
	require.Len(t, res.Consumptions, 1)
	assert.Equal(t, "20260830-001", res.Consumptions[0].BatchNo)
	assert.Equal(t, int64(25), res.Consumptions[0].Quantity)
	assert.Equal(t, int64(5), batches.byNo("20260830-001").Quantity)
	assert.False(t, batches.byNo("20260830-001").Exhausted)
	assert.Equal(t, int64(25), batches.byNo("20260831-001").Quantity)
}

func TestStockOut_FIFOAbarcaVariosLotes(t *testing.T) {
	base := time.Now().Add(-48 * time.Hour)
	mats := newFakeMaterialRepo(material("m1", "SKU-1", 50, 0))
	batches := newFakeBatchRepo(
		batch("b1", "20260830-001", "m1", 30, base),
		batch("b2", "20260831-001", "m1", 20, base.Add(24*time.Hour)),
	)
	engine, tx := newEngine(mats, batches)

	res, err := engine.StockOut(context.Background(), stock.StockOutInput{
		Material: stock.MaterialRef{ID: "m1"},
		Quantity: 40,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(50), res.OldQuantity)
	assert.Equal(t, int64(10), res.NewQuantity)

	// El más antiguo se agota por completo; el resto sale del siguiente.
	require.Len(t, res.Consumptions, 2)
	assert.Equal(t, "20260830-001", res.Consumptions[0].BatchNo)
	assert.Equal(t, int64(30), res.Consumptions[0].Quantity)
	assert.Equal(t, "20260831-001", res.Consumptions[1].BatchNo)
	assert.Equal(t, int64(10), res.Consumptions[1].Quantity)

	assert.True(t, batches.byNo("20260830-001").Exhausted)
	assert.Equal(t, int64(0), batches.byNo("20260830-001").Quantity)
	assert.False(t, batches.byNo("20260831-001").Exhausted)
	assert.Equal(t, int64(10), batches.byNo("20260831-001").Quantity)

	// El asiento de salida no apunta a ningún lote; los consumos sí.
	require.Len(t, tx.records.records, 1)
	rec := tx.records.records[0]
	assert.Equal(t, entity.MovementOut, rec.Type)
	assert.Nil(t, rec.BatchID)
	require.Len(t, tx.cons.items, 2)
	for _, c := range tx.cons.items {
		assert.Equal(t, rec.ID, c.RecordID)
	}
	assert.Equal(t, int64(0), res.UntrackedRemainder)
}

func TestStockOut_InsuficienteNoEscribeNada(t *testing.T) {
	mats := newFakeMaterialRepo(material("m1", "SKU-1", 10, 0))
	batches := newFakeBatchRepo(batch("b1", "20260830-001", "m1", 10, time.Now()))
	engine, tx := newEngine(mats, batches)

	_, err := engine.StockOut(context.Background(), stock.StockOutInput{
		Material: stock.MaterialRef{ID: "m1"},
		Quantity: 9999,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "disponible 10")
	assert.Contains(t, err.Error(), "solicitado 9999")

	// La guarda rechazó antes de cualquier escritura.
	assert.Equal(t, int64(10), mats.mats["m1"].Quantity)
	assert.Equal(t, int64(10), batches.byNo("20260830-001").Quantity)
	assert.Empty(t, tx.records.records)
	assert.Empty(t, tx.cons.items)
}

func TestStockOut_RemanenteSinLotes(t *testing.T) {
	// Existencia previa al rastreo de lotes: la cantidad supera la suma de lotes.
	mats := newFakeMaterialRepo(material("m1", "SKU-1", 50, 0))
	batches := newFakeBatchRepo(batch("b1", "20260830-001", "m1", 30, time.Now()))
	engine, tx := newEngine(mats, batches)

	res, err := engine.StockOut(context.Background(), stock.StockOutInput{
		Material: stock.MaterialRef{ID: "m1"},
		Quantity: 45,
	})
	require.NoError(t, err)

	// La salida se asienta completa aunque los lotes solo cubran 30.
	assert.Equal(t, int64(5), res.NewQuantity)
	assert.Equal(t, int64(15), res.UntrackedRemainder)
	require.Len(t, res.Consumptions, 1)
	assert.Equal(t, int64(30), res.Consumptions[0].Quantity)
	require.Len(t, tx.records.records, 1)
	assert.Equal(t, int64(45), tx.records.records[0].Quantity)
}

func TestStockOut_AvisoDeStockBajo(t *testing.T) {
	cases := []struct {
		name     string
		initial  int64
		out      int64
		contains string
	}{
		{"sin aviso en o sobre el umbral", 30, 10, ""},
		{"aviso leve bajo el umbral", 25, 10, "stock bajo"},
		{"aviso crítico bajo el 50%", 25, 17, "stock crítico"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mats := newFakeMaterialRepo(material("m1", "SKU-1", tc.initial, 20))
			batches := newFakeBatchRepo(batch("b1", "20260830-001", "m1", tc.initial, time.Now()))
			engine, _ := newEngine(mats, batches)

			res, err := engine.StockOut(context.Background(), stock.StockOutInput{
				Material: stock.MaterialRef{ID: "m1"},
				Quantity: tc.out,
			})
			require.NoError(t, err)
			if tc.contains == "" {
				assert.Empty(t, res.Warning)
			} else {
				assert.Contains(t, res.Warning, tc.contains)
			}
		})
	}
}

func TestStockOut_CantidadInvalida(t *testing.T) {
	mats := newFakeMaterialRepo(material("m1", "SKU-1", 10, 0))
	engine, _ := newEngine(mats, newFakeBatchRepo())

	_, err := engine.StockOut(context.Background(), stock.StockOutInput{
		Material: stock.MaterialRef{ID: "m1"},
		Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
