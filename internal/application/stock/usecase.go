package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// Service es el motor transaccional de mutación de stock: una entrada o una
// salida por llamada, con sus cuatro escrituras (registro, lote, consumos,
// diario) en una sola transacción.
type Service struct {
	tx  TxRunner
	log *logger.Logger
}

// NewService construye el motor de stock.
func NewService(tx TxRunner, log *logger.Logger) *Service {
	return &Service{tx: tx, log: log}
}

// MaterialRef identifica un material por ID, SKU o nombre (en ese orden).
type MaterialRef struct {
	ID   string
	SKU  string
	Name string
}

// StockInInput entrada para una operación de entrada.
// Operator viaja explícito como parámetro: no hay "usuario actual" ambiente.
type StockInInput struct {
	Material       MaterialRef
	Quantity       int64
	Reason         string
	Operator       string
	OperatorUserID string
	ContactID      string // proveedor, opcional
}

// StockOutInput entrada para una operación de salida.
type StockOutInput struct {
	Material       MaterialRef
	Quantity       int64
	Reason         string
	Operator       string
	OperatorUserID string
	ContactID      string // cliente, opcional
}

// StockInResult resultado de una entrada: cantidades antes/después y el lote creado.
type StockInResult struct {
	Material    *entity.Material
	OldQuantity int64
	NewQuantity int64
	Batch       *entity.Batch
}

// ConsumptionDetail cuánto se extrajo de cada lote en una salida.
type ConsumptionDetail struct {
	BatchNo  string `json:"batch_no"`
	Quantity int64  `json:"quantity"`
}

// StockOutResult resultado de una salida. Warning es un aviso no bloqueante de
// stock bajo. UntrackedRemainder > 0 señala la porción de la salida que no pudo
// atribuirse a lotes (historial previo al rastreo de lotes).
type StockOutResult struct {
	Material           *entity.Material
	OldQuantity        int64
	NewQuantity        int64
	Consumptions       []ConsumptionDetail
	Warning            string
	UntrackedRemainder int64
}

// StockIn registra una entrada: incremento atómico de la cantidad, creación de
// exactamente un lote con consecutivo diario atómico, y un asiento en el
// diario. Todo o nada.
func (s *Service) StockIn(ctx context.Context, in StockInInput) (*StockInResult, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad de entrada debe ser mayor que cero (recibido %d)", domain.ErrInvalidQuantity, in.Quantity)
	}

	var res *StockInResult
	err := s.tx.Run(ctx, func(
		matRepo repository.MaterialRepository,
		batchRepo repository.BatchRepository,
		_ repository.ConsumptionRepository,
		recRepo repository.InventoryRecordRepository,
	) error {
		mat, err := resolveMaterial(ctx, matRepo, in.Material)
		if err != nil {
			return err
		}
		if mat.Disabled {
			return fmt.Errorf("%w: el material %q está deshabilitado", domain.ErrNotFound, mat.SKU)
		}
		res, err = s.StockInInTx(ctx, matRepo, batchRepo, recRepo, mat, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("material_id", res.Material.ID).
		Str("sku", res.Material.SKU).
		Int64("quantity", in.Quantity).
		Int64("new_quantity", res.NewQuantity).
		Str("batch_no", res.Batch.BatchNo).
		Str("operator", in.Operator).
		Msg("entrada de stock registrada")
	return res, nil
}

// StockInInTx ejecuta la entrada con los repositorios de la transacción del
// caller (misma tx). Lo usa StockIn y también el motor de conciliación, que
// agrupa varias operaciones en una única transacción.
func (s *Service) StockInInTx(
	ctx context.Context,
	matRepo repository.MaterialRepository,
	batchRepo repository.BatchRepository,
	recRepo repository.InventoryRecordRepository,
	mat *entity.Material,
	in StockInInput,
) (*StockInResult, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad de entrada debe ser mayor que cero (recibido %d)", domain.ErrInvalidQuantity, in.Quantity)
	}

	// Incremento guardado en una sola sentencia: entradas concurrentes no
	// pierden actualizaciones.
	newQty, err := matRepo.IncrementQuantity(ctx, mat.ID, in.Quantity)
	if err != nil {
		return nil, err
	}
	oldQty := newQty - in.Quantity
	now := time.Now()

	// Consecutivo diario atómico: dos entradas del mismo día nunca chocan en
	// batch_no aunque corran en transacciones distintas.
	day := now.Format("20060102")
	seq, err := batchRepo.NextDailySequence(ctx, day)
	if err != nil {
		return nil, err
	}

	batch := &entity.Batch{
		ID:              uuid.New().String(),
		BatchNo:         fmt.Sprintf("%s-%03d", day, seq),
		MaterialID:      mat.ID,
		Quantity:        in.Quantity,
		InitialQuantity: in.Quantity,
		ContactID:       optional(in.ContactID),
		CreatedAt:       now,
	}
	if err := batchRepo.Create(ctx, batch); err != nil {
		return nil, err
	}

	rec := &entity.InventoryRecord{
		ID:             uuid.New().String(),
		MaterialID:     mat.ID,
		Type:           entity.MovementIn,
		Quantity:       in.Quantity,
		Operator:       defaultOperator(in.Operator),
		OperatorUserID: optional(in.OperatorUserID),
		Reason:         defaultReason(in.Reason, "Entrada por compra"),
		ContactID:      optional(in.ContactID),
		BatchID:        &batch.ID,
		CreatedAt:      now,
	}
	if err := recRepo.Create(ctx, rec); err != nil {
		return nil, err
	}

	after := *mat
	after.Quantity = newQty
	return &StockInResult{
		Material:    &after,
		OldQuantity: oldQty,
		NewQuantity: newQty,
		Batch:       batch,
	}, nil
}

// StockOut registra una salida: compare-and-decrement guardado, consumo FIFO
// de lotes y un asiento en el diario, todo en una transacción.
func (s *Service) StockOut(ctx context.Context, in StockOutInput) (*StockOutResult, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad de salida debe ser mayor que cero (recibido %d)", domain.ErrInvalidQuantity, in.Quantity)
	}

	var res *StockOutResult
	err := s.tx.Run(ctx, func(
		matRepo repository.MaterialRepository,
		batchRepo repository.BatchRepository,
		consRepo repository.ConsumptionRepository,
		recRepo repository.InventoryRecordRepository,
	) error {
		mat, err := resolveMaterial(ctx, matRepo, in.Material)
		if err != nil {
			return err
		}
		res, err = s.StockOutInTx(ctx, matRepo, batchRepo, consRepo, recRepo, mat, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	evt := s.log.Info()
	if res.UntrackedRemainder > 0 {
		// Material con historial previo al rastreo de lotes: la salida queda
		// asentada en el diario pero sin cobertura completa de consumos.
		evt = s.log.Warn().Int64("untracked_remainder", res.UntrackedRemainder)
	}
	evt.
		Str("material_id", res.Material.ID).
		Str("sku", res.Material.SKU).
		Int64("quantity", in.Quantity).
		Int64("new_quantity", res.NewQuantity).
		Int("batches_consumed", len(res.Consumptions)).
		Str("operator", in.Operator).
		Msg("salida de stock registrada")
	return res, nil
}

// StockOutInTx ejecuta la salida con los repositorios de la transacción del
// caller. El decremento guardado es el único mecanismo de seguridad frente a
// salidas concurrentes: si afecta cero filas no se ejecuta nada más.
func (s *Service) StockOutInTx(
	ctx context.Context,
	matRepo repository.MaterialRepository,
	batchRepo repository.BatchRepository,
	consRepo repository.ConsumptionRepository,
	recRepo repository.InventoryRecordRepository,
	mat *entity.Material,
	in StockOutInput,
) (*StockOutResult, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad de salida debe ser mayor que cero (recibido %d)", domain.ErrInvalidQuantity, in.Quantity)
	}

	newQty, ok, err := matRepo.DecrementQuantityGuarded(ctx, mat.ID, in.Quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, newQty, in.Quantity)
	}
	oldQty := newQty + in.Quantity
	now := time.Now()

	// El asiento se crea antes del recorrido FIFO para que los consumos puedan
	// referenciarlo; todo vive en la misma transacción.
	rec := &entity.InventoryRecord{
		ID:             uuid.New().String(),
		MaterialID:     mat.ID,
		Type:           entity.MovementOut,
		Quantity:       in.Quantity,
		Operator:       defaultOperator(in.Operator),
		OperatorUserID: optional(in.OperatorUserID),
		Reason:         defaultReason(in.Reason, "Salida por venta"),
		ContactID:      optional(in.ContactID),
		BatchID:        nil, // una salida puede abarcar varios lotes
		CreatedAt:      now,
	}
	if err := recRepo.Create(ctx, rec); err != nil {
		return nil, err
	}

	// Consumo FIFO: lote más antiguo primero, bloqueado dentro de la tx.
	batches, err := batchRepo.ListOpenForUpdate(ctx, mat.ID)
	if err != nil {
		return nil, err
	}
	remaining := in.Quantity
	var details []ConsumptionDetail
	for _, b := range batches {
		if remaining == 0 {
			break
		}
		take := b.Quantity
		if take > remaining {
			take = remaining
		}
		left := b.Quantity - take
		if err := batchRepo.ApplyConsumption(ctx, b.ID, left, left == 0); err != nil {
			return nil, err
		}
		cons := &entity.BatchConsumption{
			ID:        uuid.New().String(),
			RecordID:  rec.ID,
			BatchID:   b.ID,
			BatchNo:   b.BatchNo,
			Quantity:  take,
			CreatedAt: now,
		}
		if err := consRepo.Create(ctx, cons); err != nil {
			return nil, err
		}
		details = append(details, ConsumptionDetail{BatchNo: b.BatchNo, Quantity: take})
		remaining -= take
	}

	after := *mat
	after.Quantity = newQty
	return &StockOutResult{
		Material:           &after,
		OldQuantity:        oldQty,
		NewQuantity:        newQty,
		Consumptions:       details,
		Warning:            lowStockWarning(&after),
		UntrackedRemainder: remaining,
	}, nil
}

// lowStockWarning devuelve un aviso no bloqueante si la nueva cantidad quedó
// por debajo del stock de seguridad; crítico cuando cae bajo el 50% del umbral.
func lowStockWarning(m *entity.Material) string {
	if m.Quantity >= m.SafeStock {
		return ""
	}
	if m.Quantity*2 < m.SafeStock {
		return fmt.Sprintf("Alerta: stock crítico de %s. Existencia actual %d %s, por debajo del 50%% del stock de seguridad (%d %s)",
			m.Name, m.Quantity, m.Unit, m.SafeStock, m.Unit)
	}
	return fmt.Sprintf("Aviso: stock bajo de %s. Existencia actual %d %s, por debajo del stock de seguridad (%d %s)",
		m.Name, m.Quantity, m.Unit, m.SafeStock, m.Unit)
}

// resolveMaterial localiza el material por ID, SKU o nombre, en ese orden.
func resolveMaterial(ctx context.Context, matRepo repository.MaterialRepository, ref MaterialRef) (*entity.Material, error) {
	var (
		mat *entity.Material
		err error
	)
	switch {
	case ref.ID != "":
		mat, err = matRepo.GetByID(ctx, ref.ID)
	case ref.SKU != "":
		mat, err = matRepo.GetBySKU(ctx, ref.SKU)
	case ref.Name != "":
		mat, err = matRepo.GetByName(ctx, ref.Name)
	default:
		return nil, fmt.Errorf("%w: se requiere id, sku o nombre del material", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}
	if mat == nil {
		return nil, fmt.Errorf("%w: material %q", domain.ErrNotFound, firstNonEmpty(ref.ID, ref.SKU, ref.Name))
	}
	return mat, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func defaultOperator(op string) string {
	if op == "" {
		return "sistema"
	}
	return op
}

func defaultReason(reason, def string) string {
	if reason == "" {
		return def
	}
	return reason
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
