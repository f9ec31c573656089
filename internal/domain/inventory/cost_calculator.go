package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
)

// CostCalculator calcula el nuevo costo promedio ponderado tras una entrada.
// nuevo = ((existencia * costoActual) + (cantEntrada * costoEntrada)) / (existencia + cantEntrada)
// El resultado se redondea a domain.Scale. Con existencia resultante <= 0 devuelve el costo de la entrada: no hay saldo previo que promediar.
func CostCalculator(onHand, currentCost, inQty, inCost decimal.Decimal) decimal.Decimal {
	total := onHand.Add(inQty)
	if total.LessThanOrEqual(decimal.Zero) {
		return inCost
	}
	if onHand.LessThan(decimal.Zero) {
		onHand = decimal.Zero
		total = inQty
	}
	num := onHand.Mul(currentCost).Add(inQty.Mul(inCost))
	return domain.RoundScale(num.Div(total))
}
