package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/application/usecase"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

type itemRow struct {
	SKU         string
	Name        string
	Unit        string
	Description string
}

type bomRow struct {
	Line            int
	ParentSKU       string
	ComponentSKU    string
	QuantityPerUnit decimal.Decimal
}

// loadFile abre path (opcionalmente decodificando ISO-8859-1) y aplica parse.
func loadFile[T any](path string, latin1 bool, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(decodeReader(f, latin1))
}

func decodeReader(r io.Reader, latin1 bool) io.Reader {
	if latin1 {
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	return r
}

// readRecords lee el CSV y descarta la cabecera. Acepta ',' o ';' como separador.
func readRecords(r io.Reader, minFields int) ([][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(strings.NewReader(string(raw)))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if first, _, _ := strings.Cut(string(raw), "\n"); strings.Count(first, ";") > strings.Count(first, ",") {
		cr.Comma = ';'
	}
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	out := recs[1:]
	for i, rec := range out {
		if len(rec) < minFields {
			return nil, fmt.Errorf("línea %d: se esperaban al menos %d columnas", i+2, minFields)
		}
	}
	return out, nil
}

func readItems(r io.Reader) ([]itemRow, error) {
	recs, err := readRecords(r, 3)
	if err != nil {
		return nil, err
	}
	out := make([]itemRow, 0, len(recs))
	for _, rec := range recs {
		row := itemRow{
			SKU:  strings.TrimSpace(rec[0]),
			Name: strings.TrimSpace(rec[1]),
			Unit: strings.TrimSpace(rec[2]),
		}
		if len(rec) > 3 {
			row.Description = strings.TrimSpace(rec[3])
		}
		out = append(out, row)
	}
	return out, nil
}

func readBOM(r io.Reader) ([]bomRow, error) {
	recs, err := readRecords(r, 3)
	if err != nil {
		return nil, err
	}
	out := make([]bomRow, 0, len(recs))
	for i, rec := range recs {
		// coma decimal en exportes con ';'
		qty, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[2]), ",", "."))
		if err != nil {
			return nil, fmt.Errorf("línea %d: cantidad %q inválida", i+2, rec[2])
		}
		out = append(out, bomRow{
			Line:            i + 2,
			ParentSKU:       strings.TrimSpace(rec[0]),
			ComponentSKU:    strings.TrimSpace(rec[1]),
			QuantityPerUnit: qty,
		})
	}
	return out, nil
}

type report struct {
	ItemsCreated int
	ItemsSkipped int
	BOMCreated   int
	BOMSkipped   int
}

type seeder struct {
	items *usecase.ItemUseCase
	bom   *manufacturing.BOMUseCase
	log   *logger.Logger
}

// run crea los artículos que faltan y luego las líneas de BOM. Duplicados se omiten; el resto de errores corta.
func (s *seeder) run(ctx context.Context, companyID string, items []itemRow, lines []bomRow) (report, error) {
	var rep report
	for _, it := range items {
		_, err := s.items.Create(ctx, companyID, dto.CreateItemRequest{
			SKU: it.SKU, Name: it.Name, Unit: it.Unit, Description: it.Description,
		})
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			rep.ItemsSkipped++
		case err != nil:
			return rep, fmt.Errorf("artículo %s: %w", it.SKU, err)
		default:
			rep.ItemsCreated++
		}
	}

	for _, l := range lines {
		parent, err := s.items.GetBySKU(ctx, companyID, l.ParentSKU)
		if err != nil {
			return rep, err
		}
		component, err := s.items.GetBySKU(ctx, companyID, l.ComponentSKU)
		if err != nil {
			return rep, err
		}
		if parent == nil || component == nil {
			s.log.Warn().Int("line", l.Line).Str("parent", l.ParentSKU).Str("component", l.ComponentSKU).Msg("SKU inexistente, línea omitida")
			rep.BOMSkipped++
			continue
		}
		_, err = s.bom.AddLine(ctx, companyID, parent.ID, dto.AddBOMLineRequest{
			ComponentItemID: component.ID, QuantityPerUnit: l.QuantityPerUnit,
		})
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			rep.BOMSkipped++
		case err != nil:
			return rep, fmt.Errorf("bom línea %d: %w", l.Line, err)
		default:
			rep.BOMCreated++
		}
	}
	return rep, nil
}
