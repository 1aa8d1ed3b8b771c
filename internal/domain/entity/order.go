package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order cabecera de un pedido. El total no se persiste: ver Total().
type Order struct {
	ID        int64
	UserID    int64
	User      *User // cargado en lecturas
	Lines     []OrderLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine línea de pedido. UnitPrice es una copia del precio al momento de la compra
// y no vuelve a leerse del producto.
type OrderLine struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
	Product   *Product // cargado en lecturas
}

// Subtotal cantidad × precio unitario.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total suma de subtotales redondeada a 2 decimales. Se recalcula en cada llamada.
func (o *Order) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range o.Lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum.Round(2)
}
