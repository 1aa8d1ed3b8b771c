package entity

import "github.com/shopspring/decimal"

// Límites que impone el esquema: NUMERIC(12,2) para dinero e INTEGER para cantidades.
const (
	MaxQuantity    = 2147483647
	MoneyScale     = 2
	moneyIntDigits = 10
)

// maxMoney primer valor que ya no cabe en NUMERIC(12,2).
var maxMoney = decimal.New(1, moneyIntDigits)

// ValidMoney indica si d cabe en una columna de dinero sin redondeo: no negativo,
// menor que 1e10 y con a lo sumo 2 decimales.
func ValidMoney(d decimal.Decimal) bool {
	if d.IsNegative() || d.GreaterThanOrEqual(maxMoney) {
		return false
	}
	return d.Equal(d.Truncate(MoneyScale))
}
