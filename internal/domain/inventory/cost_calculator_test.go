package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Manufactura-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 und a 100 + 30 und a 200 = (1000 + 6000) / 40 = 175
	got := inventory.CostCalculator(d("10"), d("100"), d("30"), d("200"))
	assert.True(t, got.Equal(d("175")), "esperado 175, obtenido %s", got)
}

func TestCostCalculator_SinExistenciaTomaCostoEntrada(t *testing.T) {
	got := inventory.CostCalculator(decimal.Zero, decimal.Zero, d("100"), d("3.5"))
	assert.True(t, got.Equal(d("3.5")))
}

func TestCostCalculator_ExistenciaNegativaNoDistorsiona(t *testing.T) {
	// Una existencia negativa heredada no debe arrastrar el costo anterior.
	got := inventory.CostCalculator(d("-5"), d("999"), d("10"), d("2"))
	assert.True(t, got.Equal(d("2")))
}

func TestCostCalculator_RedondeaASeisDecimales(t *testing.T) {
	// (1*1 + 2*2) / 3 = 1.6666...
	got := inventory.CostCalculator(d("1"), d("1"), d("2"), d("2"))
	assert.Equal(t, "1.666667", got.String())
}
