package excel

import (
	"bytes"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Inventario"

// Exporter genera planillas xlsx del registro de materiales. El archivo
// producido es reimportable: usa los mismos encabezados que espera Importer.
type Exporter struct{}

// NewExporter construye el generador de planillas.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Write serializa el registro como planilla xlsx.
func (e *Exporter) Write(materials []*entity.Material) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("crear hoja: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("eliminar hoja por defecto: %w", err)
	}

	header := []any{"SKU", "Nombre", "Categoría", "Cantidad", "Unidad", "Stock de seguridad", "Ubicación"}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("escribir encabezado: %w", err)
	}

	for i, m := range materials {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("celda fila %d: %w", i+2, err)
		}
		row := []any{m.SKU, m.Name, m.Category, m.Quantity, m.Unit, m.SafeStock, m.Location}
		if err := f.SetSheetRow(exportSheet, cellRef, &row); err != nil {
			return nil, fmt.Errorf("escribir fila %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializar planilla: %w", err)
	}
	return buf, nil
}
