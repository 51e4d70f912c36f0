package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// Operaciones de una fila de conciliación.
const (
	OpIn   = "in"   // stock deseado > actual: entrada pendiente
	OpOut  = "out"  // stock deseado < actual: salida pendiente
	OpNone = "none" // sin diferencia: no genera movimiento
	OpNew  = "new"  // SKU inexistente en el registro
)

// Service es el motor de conciliación masiva: calcula el diff entre un estado
// deseado externo (filas ya parseadas de una planilla) y el registro, y lo
// aplica usando los mismos primitivos del motor de stock dentro de una única
// transacción, con guarda optimista contra deriva entre preview y confirm.
type Service struct {
	tx        stock.TxRunner
	materials repository.MaterialRepository
	engine    *stock.Service
	log       *logger.Logger
}

// NewService construye el motor de conciliación.
func NewService(tx stock.TxRunner, materials repository.MaterialRepository, engine *stock.Service, log *logger.Logger) *Service {
	return &Service{tx: tx, materials: materials, engine: engine, log: log}
}

// DesiredRow una fila del estado deseado, indexada por SKU.
type DesiredRow struct {
	Name      string
	SKU       string
	Category  string
	Quantity  int64
	Unit      string
	SafeStock int64
	Location  string
}

// Change una fila del diff. CurrentQuantity captura la cantidad observada en
// el preview y actúa como token de concurrencia optimista en el confirm
// (nil para SKUs nuevos).
type Change struct {
	SKU             string `json:"sku"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	Unit            string `json:"unit"`
	SafeStock       int64  `json:"safe_stock"`
	Location        string `json:"location"`
	ImportQuantity  int64  `json:"import_quantity"`
	CurrentQuantity *int64 `json:"current_quantity"`
	Difference      int64  `json:"difference"`
	Operation       string `json:"operation"`
}

// PreviewResult diff completo más los SKUs nuevos y los ausentes del archivo.
type PreviewResult struct {
	Changes     []Change `json:"changes"`
	NewSKUs     []string `json:"new_skus"`
	MissingSKUs []string `json:"missing_skus"`
	TotalIn     int      `json:"total_in"`
	TotalOut    int      `json:"total_out"`
	TotalNew    int      `json:"total_new"`
}

// ConfirmOptions banderas explícitas del confirm. Nada se aplica por inferencia:
// los SKUs nuevos y la deshabilitación de ausentes requieren confirmación.
type ConfirmOptions struct {
	Reason                    string
	Operator                  string
	OperatorUserID            string
	ConfirmNewSKUs            bool
	ConfirmDisableMissingSKUs bool
}

// ConfirmResult conteos de lo aplicado.
type ConfirmResult struct {
	InCount       int `json:"in_count"`
	OutCount      int `json:"out_count"`
	NewCount      int `json:"new_count"`
	DisabledCount int `json:"disabled_count"`
	SkippedCount  int `json:"skipped_count"`
}

// Preview calcula el diff por SKU sin mutar nada. Para SKUs existentes la
// diferencia es deseado - actual; los inexistentes se clasifican como new.
func (s *Service) Preview(ctx context.Context, rows []DesiredRow) (*PreviewResult, error) {
	res := &PreviewResult{}
	seen := make(map[string]bool, len(rows))

	for i, row := range rows {
		if row.SKU == "" {
			return nil, fmt.Errorf("%w: la fila %d no tiene SKU", domain.ErrInvalidInput, i+1)
		}
		if row.Quantity < 0 {
			return nil, fmt.Errorf("%w: la fila %d (%s) tiene cantidad negativa %d", domain.ErrInvalidInput, i+1, row.SKU, row.Quantity)
		}
		if seen[row.SKU] {
			return nil, fmt.Errorf("%w: SKU %q repetido en el archivo", domain.ErrInvalidInput, row.SKU)
		}
		seen[row.SKU] = true

		mat, err := s.materials.GetBySKU(ctx, row.SKU)
		if err != nil {
			return nil, err
		}

		ch := Change{
			SKU:            row.SKU,
			Name:           row.Name,
			Category:       row.Category,
			Unit:           row.Unit,
			SafeStock:      row.SafeStock,
			Location:       row.Location,
			ImportQuantity: row.Quantity,
		}
		if mat == nil {
			ch.Operation = OpNew
			ch.Difference = row.Quantity
			res.NewSKUs = append(res.NewSKUs, row.SKU)
			res.TotalNew++
		} else {
			current := mat.Quantity
			ch.CurrentQuantity = &current
			ch.Difference = row.Quantity - current
			switch {
			case ch.Difference > 0:
				ch.Operation = OpIn
				res.TotalIn++
			case ch.Difference < 0:
				ch.Operation = OpOut
				res.TotalOut++
			default:
				ch.Operation = OpNone
			}
		}
		res.Changes = append(res.Changes, ch)
	}

	// SKUs del registro ausentes del archivo: candidatos a deshabilitar.
	existing, err := s.materials.List(ctx, repository.MaterialFilter{})
	if err != nil {
		return nil, err
	}
	for _, m := range existing {
		if !seen[m.SKU] {
			res.MissingSKUs = append(res.MissingSKUs, m.SKU)
		}
	}
	return res, nil
}

// Confirm aplica el diff como una única unidad de trabajo atómica. Cualquier
// deriva respecto al preview o insuficiencia de stock aborta la confirmación
// completa: nunca se aplica parcialmente y nunca se reintenta.
func (s *Service) Confirm(ctx context.Context, changes []Change, opts ConfirmOptions) (*ConfirmResult, error) {
	res := &ConfirmResult{}
	reason := opts.Reason
	if reason == "" {
		reason = "Conciliación por importación"
	}

	err := s.tx.Run(ctx, func(
		matRepo repository.MaterialRepository,
		batchRepo repository.BatchRepository,
		consRepo repository.ConsumptionRepository,
		recRepo repository.InventoryRecordRepository,
	) error {
		inFile := make(map[string]bool, len(changes))
		for _, ch := range changes {
			inFile[ch.SKU] = true

			switch ch.Operation {
			case OpNew:
				if !opts.ConfirmNewSKUs {
					res.SkippedCount++
					continue
				}
				if err := s.applyNew(ctx, matRepo, batchRepo, recRepo, ch, reason, opts); err != nil {
					return err
				}
				res.NewCount++

			case OpNone:
				// Sin movimiento; solo rehabilitar si estaba deshabilitado.
				if err := reenableIfDisabled(ctx, matRepo, ch.SKU); err != nil {
					return err
				}
				res.SkippedCount++

			case OpIn, OpOut:
				applied, err := s.applyDiff(ctx, matRepo, batchRepo, consRepo, recRepo, ch, reason, opts)
				if err != nil {
					return err
				}
				if applied > 0 {
					res.InCount++
				} else {
					res.OutCount++
				}

			default:
				return fmt.Errorf("%w: operación desconocida %q para %s", domain.ErrInvalidInput, ch.Operation, ch.SKU)
			}
		}

		if opts.ConfirmDisableMissingSKUs {
			existing, err := matRepo.List(ctx, repository.MaterialFilter{})
			if err != nil {
				return err
			}
			for _, m := range existing {
				if !inFile[m.SKU] && !m.Disabled {
					if err := matRepo.SetDisabled(ctx, m.ID, true); err != nil {
						return err
					}
					res.DisabledCount++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int("in", res.InCount).
		Int("out", res.OutCount).
		Int("new", res.NewCount).
		Int("disabled", res.DisabledCount).
		Int("skipped", res.SkippedCount).
		Str("operator", opts.Operator).
		Msg("conciliación aplicada")
	return res, nil
}

// applyNew crea el material y, si el deseado es mayor que cero, realiza la
// entrada inicial con los mismos primitivos del motor de stock.
func (s *Service) applyNew(
	ctx context.Context,
	matRepo repository.MaterialRepository,
	batchRepo repository.BatchRepository,
	recRepo repository.InventoryRecordRepository,
	ch Change,
	reason string,
	opts ConfirmOptions,
) error {
	now := time.Now()
	mat := &entity.Material{
		ID:        uuid.New().String(),
		SKU:       ch.SKU,
		Name:      ch.Name,
		Category:  ch.Category,
		Quantity:  0,
		Unit:      ch.Unit,
		SafeStock: ch.SafeStock,
		Location:  ch.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := matRepo.Create(ctx, mat); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// El SKU apareció entre preview y confirm: deriva, no sobreescribir.
			return fmt.Errorf("%w: el SKU %q fue creado por otro proceso; repita la vista previa", domain.ErrStockDrift, ch.SKU)
		}
		return err
	}
	if ch.ImportQuantity > 0 {
		_, err := s.engine.StockInInTx(ctx, matRepo, batchRepo, recRepo, mat, stock.StockInInput{
			Material:       stock.MaterialRef{ID: mat.ID},
			Quantity:       ch.ImportQuantity,
			Reason:         reason,
			Operator:       opts.Operator,
			OperatorUserID: opts.OperatorUserID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// applyDiff aplica una fila in/out sobre un SKU existente. Devuelve la
// diferencia aplicada (positiva entrada, negativa salida).
func (s *Service) applyDiff(
	ctx context.Context,
	matRepo repository.MaterialRepository,
	batchRepo repository.BatchRepository,
	consRepo repository.ConsumptionRepository,
	recRepo repository.InventoryRecordRepository,
	ch Change,
	reason string,
	opts ConfirmOptions,
) (int64, error) {
	mat, err := matRepo.GetBySKU(ctx, ch.SKU)
	if err != nil {
		return 0, err
	}
	if mat == nil {
		return 0, fmt.Errorf("%w: el SKU %q desapareció del registro; repita la vista previa", domain.ErrStockDrift, ch.SKU)
	}

	// Guarda optimista: la cantidad releída debe coincidir con la capturada en
	// el preview. Un desajuste aborta toda la confirmación.
	if ch.CurrentQuantity == nil || mat.Quantity != *ch.CurrentQuantity {
		observed := int64(-1)
		if ch.CurrentQuantity != nil {
			observed = *ch.CurrentQuantity
		}
		return 0, fmt.Errorf("%w: %q tenía %d en la vista previa y ahora tiene %d; repita la vista previa",
			domain.ErrStockDrift, ch.SKU, observed, mat.Quantity)
	}

	if mat.Disabled {
		if err := matRepo.SetDisabled(ctx, mat.ID, false); err != nil {
			return 0, err
		}
		mat.Disabled = false
	}

	if ch.Difference > 0 {
		_, err := s.engine.StockInInTx(ctx, matRepo, batchRepo, recRepo, mat, stock.StockInInput{
			Material:       stock.MaterialRef{ID: mat.ID},
			Quantity:       ch.Difference,
			Reason:         reason,
			Operator:       opts.Operator,
			OperatorUserID: opts.OperatorUserID,
		})
		return ch.Difference, err
	}

	need := -ch.Difference
	if need > mat.Quantity {
		return 0, fmt.Errorf("%w: stock insuficiente para %q: disponible %d, salida requerida %d",
			domain.ErrReconcileAborted, ch.SKU, mat.Quantity, need)
	}
	_, err = s.engine.StockOutInTx(ctx, matRepo, batchRepo, consRepo, recRepo, mat, stock.StockOutInput{
		Material:       stock.MaterialRef{ID: mat.ID},
		Quantity:       need,
		Reason:         reason,
		Operator:       opts.Operator,
		OperatorUserID: opts.OperatorUserID,
	})
	return ch.Difference, err
}

func reenableIfDisabled(ctx context.Context, matRepo repository.MaterialRepository, sku string) error {
	mat, err := matRepo.GetBySKU(ctx, sku)
	if err != nil || mat == nil {
		return err
	}
	if mat.Disabled {
		return matRepo.SetDisabled(ctx, mat.ID, false)
	}
	return nil
}
