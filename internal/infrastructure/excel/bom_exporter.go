// Package excel exporta listas de materiales a hojas de cálculo (xlsx).
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
)

// SheetName nombre de la hoja generada.
const SheetName = "BOM"

var bomHeaders = []string{"SKU", "Componente", "Unidad", "Cantidad por unidad", "Costo unitario", "Costo por unidad producida"}

var _ manufacturing.BOMExporter = (*BOMExporter)(nil)

// BOMExporter implementa manufacturing.BOMExporter con excelize.
type BOMExporter struct{}

// NewBOMExporter construye el exportador.
func NewBOMExporter() *BOMExporter { return &BOMExporter{} }

// ExportBOM genera un xlsx con una fila por componente y una fila de total.
func (e *BOMExporter) ExportBOM(_ context.Context, bom *dto.BOMResponse) ([]byte, error) {
	if bom == nil {
		return nil, fmt.Errorf("excel: bom nil")
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 13}})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	totalStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	set := func(cell string, v any) error {
		return f.SetCellValue(SheetName, cell, v)
	}

	if err := set("A1", fmt.Sprintf("%s  %s", bom.ParentSKU, bom.ParentName)); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(SheetName, "A1", "A1", titleStyle)

	const headerRow = 3
	for i, h := range bomHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, headerRow)
		if err := set(cell, h); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(SheetName, cell, cell, headerStyle)
	}

	for i, l := range bom.Lines {
		r := headerRow + 1 + i
		extended := l.QuantityPerUnit.Mul(l.UnitCost)
		values := []any{
			l.ComponentSKU,
			l.ComponentName,
			l.Unit,
			l.QuantityPerUnit.InexactFloat64(),
			l.UnitCost.InexactFloat64(),
			extended.InexactFloat64(),
		}
		for c, v := range values {
			col, _ := excelize.ColumnNumberToName(c + 1)
			if err := set(fmt.Sprintf("%s%d", col, r), v); err != nil {
				return nil, err
			}
		}
	}

	totalRow := headerRow + 1 + len(bom.Lines)
	_ = set(fmt.Sprintf("A%d", totalRow), "Total")
	_ = set(fmt.Sprintf("B%d", totalRow), fmt.Sprintf("Componentes: %d", len(bom.Lines)))
	_ = set(fmt.Sprintf("F%d", totalRow), bom.UnitMaterialCost.InexactFloat64())
	_ = f.SetCellStyle(SheetName, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("F%d", totalRow), totalStyle)

	for i, w := range []float64{14, 30, 10, 18, 16, 24} {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(SheetName, col, col, w)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
