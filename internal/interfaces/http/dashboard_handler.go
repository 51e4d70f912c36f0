package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/analytics"
)

// DashboardHandler tablero de inventario (protegido).
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Tablero: indicadores, distribución, tendencia y listas
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MaterialStats godoc
// @Summary      Indicadores de un material: movimientos de hoy, variación y acumulados
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del material"
// @Success      200  {object}  dto.MaterialStatsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/stats [get]
func (h *DashboardHandler) MaterialStats(c *fiber.Ctx) error {
	out, err := h.uc.GetMaterialStats(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MaterialTrend godoc
// @Summary      Tendencia de 7 días de un material
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del material"
// @Success      200  {object}  dto.MaterialTrendResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/trend [get]
func (h *DashboardHandler) MaterialTrend(c *fiber.Ctx) error {
	out, err := h.uc.GetMaterialTrend(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
