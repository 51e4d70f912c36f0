package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jhoicas/almacen-api/internal/application/reconcile"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/pkg/textnorm"
	"github.com/xuri/excelize/v2"
)

// Encabezados reconocidos en la primera fila (insensibles a mayúsculas y tildes).
var headerAliases = map[string]string{
	"sku":                "sku",
	"codigo":             "sku",
	"nombre":             "name",
	"material":           "name",
	"categoria":          "category",
	"cantidad":           "quantity",
	"unidad":             "unit",
	"stock de seguridad": "safe_stock",
	"stock seguridad":    "safe_stock",
	"ubicacion":          "location",
}

// Importer lee planillas xlsx de estado deseado del inventario.
type Importer struct{}

// NewImporter construye el lector de planillas.
func NewImporter() *Importer {
	return &Importer{}
}

// Read parsea la primera hoja de la planilla en filas de estado deseado.
// Requiere al menos las columnas SKU, Nombre y Cantidad.
func (i *Importer) Read(r io.Reader) ([]reconcile.DesiredRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: no se pudo abrir la planilla: %v", domain.ErrInvalidInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: la planilla no tiene hojas", domain.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: la planilla no tiene filas de datos", domain.ErrInvalidInput)
	}

	cols, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	var out []reconcile.DesiredRow
	for idx, raw := range rows[1:] {
		if isBlankRow(raw) {
			continue
		}
		row, err := parseRow(raw, cols)
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", idx+2, err)
		}
		out = append(out, row)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: la planilla no tiene filas de datos", domain.ErrInvalidInput)
	}
	return out, nil
}

func mapHeader(header []string) (map[string]int, error) {
	cols := make(map[string]int)
	for idx, cell := range header {
		key := textnorm.Fold(strings.TrimSpace(cell))
		if field, ok := headerAliases[key]; ok {
			cols[field] = idx
		}
	}
	for _, required := range []string{"sku", "name", "quantity"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: falta la columna %q en el encabezado", domain.ErrInvalidInput, required)
		}
	}
	return cols, nil
}

func parseRow(raw []string, cols map[string]int) (reconcile.DesiredRow, error) {
	row := reconcile.DesiredRow{
		SKU:      cell(raw, cols, "sku"),
		Name:     cell(raw, cols, "name"),
		Category: cell(raw, cols, "category"),
		Unit:     cell(raw, cols, "unit"),
		Location: cell(raw, cols, "location"),
	}
	qty, err := parseQuantity(cell(raw, cols, "quantity"))
	if err != nil {
		return row, fmt.Errorf("%w: cantidad inválida %q", domain.ErrInvalidInput, cell(raw, cols, "quantity"))
	}
	row.Quantity = qty

	if raw := cell(raw, cols, "safe_stock"); raw != "" {
		safe, err := parseQuantity(raw)
		if err != nil {
			return row, fmt.Errorf("%w: stock de seguridad inválido %q", domain.ErrInvalidInput, raw)
		}
		row.SafeStock = safe
	}
	return row, nil
}

// parseQuantity acepta enteros y el formato "12.0" que Excel produce para
// celdas numéricas, siempre que la parte decimal sea cero.
func parseQuantity(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) || f < 0 {
		return 0, fmt.Errorf("no es un entero: %q", s)
	}
	return int64(f), nil
}

func cell(raw []string, cols map[string]int, field string) string {
	idx, ok := cols[field]
	if !ok || idx >= len(raw) {
		return ""
	}
	return strings.TrimSpace(raw[idx])
}

func isBlankRow(raw []string) bool {
	for _, c := range raw {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
