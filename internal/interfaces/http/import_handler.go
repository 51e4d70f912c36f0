package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/reconcile"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/excel"
)

// ImportHandler conciliación masiva por planilla y exportación del registro.
type ImportHandler struct {
	importer   *excel.Importer
	exporter   *excel.Exporter
	reconciler *reconcile.Service
	materials  repository.MaterialRepository
}

// NewImportHandler construye el handler.
func NewImportHandler(importer *excel.Importer, exporter *excel.Exporter, reconciler *reconcile.Service, materials repository.MaterialRepository) *ImportHandler {
	return &ImportHandler{importer: importer, exporter: exporter, reconciler: reconciler, materials: materials}
}

// Preview godoc
// @Summary      Vista previa de conciliación desde planilla xlsx
// @Description  Calcula el diff por SKU sin mutar nada. Las filas devueltas se
// reenvían tal cual al confirm; current_quantity es el token de concurrencia.
// @Tags         import
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Planilla xlsx"
// @Success      200   {object}  reconcile.PreviewResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/import/preview [post]
func (h *ImportHandler) Preview(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "se requiere el archivo 'file'"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()

	rows, err := h.importer.Read(f)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.reconciler.Preview(c.Context(), rows)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar la conciliación como unidad atómica
// @Description  Aplica el diff completo en una transacción. Deriva respecto al
// preview o stock insuficiente abortan la confirmación entera (409).
// @Tags         import
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportConfirmRequest  true  "Diff confirmado"
// @Success      200   {object}  reconcile.ConfirmResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "Deriva o stock insuficiente"
// @Router       /api/import/confirm [post]
func (h *ImportHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ImportConfirmRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Changes) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "changes no puede estar vacío"})
	}
	out, err := h.reconciler.Confirm(c.Context(), in.Changes, reconcile.ConfirmOptions{
		Reason:                    in.Reason,
		Operator:                  operatorName(c, in.Operator),
		OperatorUserID:            GetUserID(c),
		ConfirmNewSKUs:            in.ConfirmNewSKUs,
		ConfirmDisableMissingSKUs: in.ConfirmDisableMissingSKUs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar el registro de materiales como planilla xlsx
// @Description  El archivo es reimportable: usa los mismos encabezados que
// espera la vista previa de conciliación.
// @Tags         import
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        include_disabled  query  bool  false  "Incluir deshabilitados"
// @Success      200  {file}  binary
// @Router       /api/export [get]
func (h *ImportHandler) Export(c *fiber.Ctx) error {
	list, err := h.materials.List(c.Context(), repository.MaterialFilter{
		IncludeDisabled: c.QueryBool("include_disabled", false),
	})
	if err != nil {
		return respondError(c, err)
	}
	buf, err := h.exporter.Write(list)
	if err != nil {
		return respondError(c, err)
	}
	filename := fmt.Sprintf("inventario_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
