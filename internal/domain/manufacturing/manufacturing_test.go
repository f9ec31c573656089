package manufacturing_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/manufacturing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// breadBOM: 0.5 kg harina + 0.02 kg levadura por pan.
func breadBOM() []*entity.BOMLine {
	return []*entity.BOMLine{
		{ParentItemID: "bread", ComponentItemID: "yeast", QuantityPerUnit: d("0.02")},
		{ParentItemID: "bread", ComponentItemID: "flour", QuantityPerUnit: d("0.5")},
	}
}

func TestComputeRequirements_MultiplicaYOrdena(t *testing.T) {
	reqs, err := manufacturing.ComputeRequirements(breadBOM(), d("100"))
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	assert.Equal(t, "flour", reqs[0].ComponentID, "orden determinista por componente")
	assert.True(t, reqs[0].Required.Equal(d("50")))
	assert.Equal(t, "yeast", reqs[1].ComponentID)
	assert.True(t, reqs[1].Required.Equal(d("2")))
}

func TestComputeRequirements_AcumulaLineasRepetidas(t *testing.T) {
	lines := append(breadBOM(), &entity.BOMLine{ComponentItemID: "flour", QuantityPerUnit: d("0.1")})
	reqs, err := manufacturing.ComputeRequirements(lines, d("10"))
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.True(t, reqs[0].Required.Equal(d("6")))
}

func TestComputeRequirements_Validaciones(t *testing.T) {
	_, err := manufacturing.ComputeRequirements(breadBOM(), decimal.Zero)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "cantidad cero es inválida")

	_, err = manufacturing.ComputeRequirements(breadBOM(), d("-1"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "cantidad negativa es inválida")

	_, err = manufacturing.ComputeRequirements(nil, d("1"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "sin lista de materiales es inválido")

	_, err = manufacturing.ComputeRequirements([]*entity.BOMLine{{ComponentItemID: ""}}, d("1"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestFindShortages_ReportaSoloFaltantes(t *testing.T) {
	reqs, err := manufacturing.ComputeRequirements(breadBOM(), d("100"))
	require.NoError(t, err)

	shortages := manufacturing.FindShortages(reqs, map[string]decimal.Decimal{
		"flour": d("40"),
		"yeast": d("1"),
	})
	require.Len(t, shortages, 2)
	assert.Equal(t, "flour", shortages[0].ComponentID)
	assert.True(t, shortages[0].Missing.Equal(d("10")))
	assert.Equal(t, "yeast", shortages[1].ComponentID)
	assert.True(t, shortages[1].Missing.Equal(d("1")))

	shortages = manufacturing.FindShortages(reqs, map[string]decimal.Decimal{
		"flour": d("40"),
		"yeast": d("3"),
	})
	require.Len(t, shortages, 1, "la levadura alcanza")
	assert.True(t, shortages[0].Required.Equal(d("50")))
	assert.True(t, shortages[0].Available.Equal(d("40")))
}

func TestFindShortages_ComponenteSinExistencia(t *testing.T) {
	reqs, err := manufacturing.ComputeRequirements(breadBOM(), d("1"))
	require.NoError(t, err)
	shortages := manufacturing.FindShortages(reqs, map[string]decimal.Decimal{"flour": d("1")})
	require.Len(t, shortages, 1)
	assert.Equal(t, "yeast", shortages[0].ComponentID)
	assert.True(t, shortages[0].Available.IsZero())
}

func TestRollUpCost_IdentidadDeCostos(t *testing.T) {
	reqs, err := manufacturing.ComputeRequirements(breadBOM(), d("100"))
	require.NoError(t, err)

	summary, err := manufacturing.RollUpCost(reqs,
		map[string]decimal.Decimal{"flour": d("2.40"), "yeast": d("15")},
		d("80"), d("20"), d("100"))
	require.NoError(t, err)

	// 50 * 2.40 + 2 * 15 = 150
	assert.True(t, summary.TotalRawMaterialCost.Equal(d("150")))
	assert.True(t, summary.TotalManufacturingCost.Equal(d("250")))
	assert.True(t, summary.CostPerUnit.Equal(d("2.5")))

	sum := decimal.Zero
	for _, l := range summary.Lines {
		sum = sum.Add(l.TotalCost)
	}
	assert.True(t, sum.Add(summary.LaborCost).Add(summary.OverheadCost).Equal(summary.TotalManufacturingCost))
}

func TestRollUpCost_DivisionNoExacta(t *testing.T) {
	reqs, err := manufacturing.ComputeRequirements([]*entity.BOMLine{{ComponentItemID: "a", QuantityPerUnit: d("1")}}, d("3"))
	require.NoError(t, err)
	summary, err := manufacturing.RollUpCost(reqs, map[string]decimal.Decimal{"a": d("1")}, decimal.Zero, d("7"), d("3"))
	require.NoError(t, err)

	// 10 / 3 se guarda con seis decimales
	assert.Equal(t, "3.333333", summary.CostPerUnit.String())
	assert.True(t, summary.TotalManufacturingCost.Equal(d("10")))
}

func TestComputeRequirements_RedondeaASeisDecimales(t *testing.T) {
	lines := []*entity.BOMLine{{ComponentItemID: "a", QuantityPerUnit: d("0.333333")}}
	reqs, err := manufacturing.ComputeRequirements(lines, d("0.5"))
	require.NoError(t, err)
	// 0.1666665 -> 0.166667
	assert.Equal(t, "0.166667", reqs[0].Required.String())
}

func TestComputeRequirements_RechazaMasDeSeisDecimales(t *testing.T) {
	_, err := manufacturing.ComputeRequirements(breadBOM(), d("1.0000001"))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "produced_quantity", verr.Field)

	_, err = manufacturing.ComputeRequirements([]*entity.BOMLine{{ComponentItemID: "a", QuantityPerUnit: d("0.1234567")}}, d("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRollUpCost_LineasRedondeadasSuman(t *testing.T) {
	reqs := []manufacturing.Requirement{{ComponentID: "a", QuantityPerUnit: d("1"), Required: d("0.333333")}}
	summary, err := manufacturing.RollUpCost(reqs, map[string]decimal.Decimal{"a": d("0.5")}, decimal.Zero, decimal.Zero, d("1"))
	require.NoError(t, err)
	assert.Equal(t, "0.166667", summary.Lines[0].TotalCost.String())
	assert.True(t, summary.TotalRawMaterialCost.Equal(summary.Lines[0].TotalCost))
}

func TestRollUpCost_Rechazos(t *testing.T) {
	reqs, err := manufacturing.ComputeRequirements(breadBOM(), d("1"))
	require.NoError(t, err)

	_, err = manufacturing.RollUpCost(reqs, map[string]decimal.Decimal{"flour": d("1")}, decimal.Zero, decimal.Zero, d("1"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "componente sin costo")

	_, err = manufacturing.RollUpCost(reqs, map[string]decimal.Decimal{"flour": d("1"), "yeast": d("1")}, d("-1"), decimal.Zero, d("1"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "mano de obra negativa")
}
