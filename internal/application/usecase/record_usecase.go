package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// RecordUseCase consultas de solo lectura sobre el diario de movimientos.
type RecordUseCase struct {
	records      repository.InventoryRecordRepository
	consumptions repository.ConsumptionRepository
}

// NewRecordUseCase construye el caso de uso.
func NewRecordUseCase(records repository.InventoryRecordRepository, consumptions repository.ConsumptionRepository) *RecordUseCase {
	return &RecordUseCase{records: records, consumptions: consumptions}
}

// RecordQuery filtros del listado de movimientos.
type RecordQuery struct {
	MaterialID string
	Type       string // in | out | vacío
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// List lista movimientos con filtros opcionales, más recientes primero.
func (uc *RecordUseCase) List(ctx context.Context, q RecordQuery) (*dto.RecordListResponse, error) {
	list, err := uc.records.List(ctx, repository.RecordFilter{
		MaterialID: q.MaterialID,
		Type:       q.Type,
		From:       q.From,
		To:         q.To,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.RecordResponse, 0, len(list))
	for _, rec := range list {
		items = append(items, toRecordResponse(rec))
	}
	return &dto.RecordListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// Consumptions lista los consumos por lote de un movimiento de salida.
func (uc *RecordUseCase) Consumptions(ctx context.Context, recordID string) ([]dto.ConsumptionResponse, error) {
	list, err := uc.consumptions.ListByRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConsumptionResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ConsumptionResponse{BatchNo: c.BatchNo, Quantity: c.Quantity})
	}
	return out, nil
}

func toRecordResponse(rec *entity.InventoryRecord) dto.RecordResponse {
	return dto.RecordResponse{
		ID:             rec.ID,
		MaterialID:     rec.MaterialID,
		Type:           rec.Type,
		Quantity:       rec.Quantity,
		Operator:       rec.Operator,
		OperatorUserID: rec.OperatorUserID,
		Reason:         rec.Reason,
		ContactID:      rec.ContactID,
		BatchID:        rec.BatchID,
		CreatedAt:      rec.CreatedAt,
	}
}
