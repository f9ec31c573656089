package domain

import "github.com/shopspring/decimal"

// Scale decimales de las columnas NUMERIC(20,6): cantidades, costos y totales.
const Scale int32 = 6

// FitsScale informa si d se guarda sin redondeo.
func FitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(Scale))
}

// RoundScale redondea un resultado calculado (productos, promedios, divisiones) antes de persistirlo.
func RoundScale(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// CheckScale devuelve un ValidationError sobre field si d tiene más de Scale decimales.
func CheckScale(field string, d decimal.Decimal) error {
	if !FitsScale(d) {
		return NewValidationError(field, "admite como máximo %d decimales", Scale)
	}
	return nil
}
