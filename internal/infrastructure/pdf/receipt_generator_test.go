package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/elaia-api/internal/domain/entity"
)

func TestReceiptGenerator_Render(t *testing.T) {
	g := NewReceiptGenerator("ELAIA")
	o := &entity.Order{
		ID:        12,
		UserID:    3,
		User:      &entity.User{ID: 3, FirstName: "Ana", LastName: "Ruiz", Email: "ana@elaia.co"},
		CreatedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		Lines: []entity.OrderLine{
			{ID: 1, ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(1000), Product: &entity.Product{ID: 1, Name: "Vela de soya"}},
			{ID: 2, ProductID: 2, Quantity: 1, UnitPrice: decimal.NewFromInt(500)},
		},
	}

	out, err := g.Render(o)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
}

func TestReceiptGenerator_SinUsuarioNiLineas(t *testing.T) {
	g := NewReceiptGenerator("ELAIA")
	out, err := g.Render(&entity.Order{ID: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestFormatMoney(t *testing.T) {
	g := NewReceiptGenerator("ELAIA")
	s := g.formatMoney(decimal.RequireFromString("2500"))
	assert.Equal(t, "$", s[:1])
	assert.Contains(t, s, "500")
}
