package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stock"
)

// StockHandler maneja entradas y salidas de stock (protegido).
type StockHandler struct {
	engine *stock.Service
}

// NewStockHandler construye el handler.
func NewStockHandler(engine *stock.Service) *StockHandler {
	return &StockHandler{engine: engine}
}

// StockIn godoc
// @Summary      Registrar entrada de stock (crea un lote)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockInRequest  true  "Entrada"
// @Success      200   {object}  dto.StockInResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/in [post]
func (h *StockHandler) StockIn(c *fiber.Ctx) error {
	var in dto.StockInRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.engine.StockIn(c.Context(), stock.StockInInput{
		Material:       stock.MaterialRef{ID: in.MaterialID, SKU: in.SKU, Name: in.Name},
		Quantity:       in.Quantity,
		Reason:         in.Reason,
		Operator:       operatorName(c, in.Operator),
		OperatorUserID: GetUserID(c),
		ContactID:      in.ContactID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockInResponse{
		Material:    *toMaterialDTO(res.Material),
		OldQuantity: res.OldQuantity,
		NewQuantity: res.NewQuantity,
		Batch: dto.BatchResponse{
			ID:              res.Batch.ID,
			BatchNo:         res.Batch.BatchNo,
			MaterialID:      res.Batch.MaterialID,
			Quantity:        res.Batch.Quantity,
			InitialQuantity: res.Batch.InitialQuantity,
			ContactID:       res.Batch.ContactID,
			Exhausted:       res.Batch.Exhausted,
			CreatedAt:       res.Batch.CreatedAt,
		},
	})
}

// StockOut godoc
// @Summary      Registrar salida de stock (consumo FIFO de lotes)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOutRequest  true  "Salida"
// @Success      200   {object}  dto.StockOutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "Stock insuficiente"
// @Router       /api/stock/out [post]
func (h *StockHandler) StockOut(c *fiber.Ctx) error {
	var in dto.StockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.engine.StockOut(c.Context(), stock.StockOutInput{
		Material:       stock.MaterialRef{ID: in.MaterialID, SKU: in.SKU, Name: in.Name},
		Quantity:       in.Quantity,
		Reason:         in.Reason,
		Operator:       operatorName(c, in.Operator),
		OperatorUserID: GetUserID(c),
		ContactID:      in.ContactID,
	})
	if err != nil {
		return respondError(c, err)
	}
	consumptions := make([]dto.ConsumptionResponse, 0, len(res.Consumptions))
	for _, d := range res.Consumptions {
		consumptions = append(consumptions, dto.ConsumptionResponse{BatchNo: d.BatchNo, Quantity: d.Quantity})
	}
	return c.JSON(dto.StockOutResponse{
		Material:           *toMaterialDTO(res.Material),
		OldQuantity:        res.OldQuantity,
		NewQuantity:        res.NewQuantity,
		Consumptions:       consumptions,
		Warning:            res.Warning,
		UntrackedRemainder: res.UntrackedRemainder,
	})
}

// operatorName prioriza el operador explícito del cuerpo; si falta, usa el
// username autenticado.
func operatorName(c *fiber.Ctx, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return GetUsername(c)
}
