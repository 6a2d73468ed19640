package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/instock-client/internal/domain/pricing"
)

// Derive(cost, margin) == round(cost * (1 + margin/100), 2) para toda entrada.
func TestDerive_FormulaYRedondeo(t *testing.T) {
	cases := []struct {
		name   string
		cost   string
		margin string
		want   string
	}{
		{"caso base margen 40", "10", "40", "14"},
		{"margen cero", "12.50", "0", "12.5"},
		{"costo cero", "0", "40", "0"},
		{"redondeo a 2 decimales", "3.33", "10", "3.66"},
		{"margen fraccionario", "7.77", "33.33", "10.36"},
		{"margen alto", "1", "250", "3.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cost := decimal.RequireFromString(tc.cost)
			margin := decimal.RequireFromString(tc.margin)
			want := decimal.RequireFromString(tc.want)
			got := pricing.Derive(cost, margin)
			assert.True(t, got.Equal(want),
				"Derive(%s, %s) debe ser %s, fue %s", tc.cost, tc.margin, tc.want, got)
		})
	}
}

// Entradas no numéricas cuentan como cero en el formulario.
func TestParseAmount_InvalidoEsCero(t *testing.T) {
	assert.True(t, pricing.ParseAmount("").IsZero(), "vacío debe ser cero")
	assert.True(t, pricing.ParseAmount("abc").IsZero(), "no numérico debe ser cero")
	assert.True(t, pricing.ParseAmount("12,50").IsZero(), "separador de coma no es válido")
	assert.True(t, pricing.ParseAmount(" 12.50 ").Equal(decimal.RequireFromString("12.50")),
		"espacios alrededor se toleran")
}

// Costo promedio ponderado tras una entrada.
func TestAverageCost_PromedioPonderado(t *testing.T) {
	got := pricing.AverageCost(10, decimal.NewFromInt(10), 10, decimal.NewFromInt(20))
	assert.True(t, got.Equal(decimal.NewFromInt(15)),
		"(10*10 + 10*20) / 20 debe ser 15, fue %s", got)

	got = pricing.AverageCost(0, decimal.Zero, 5, decimal.NewFromInt(8))
	assert.True(t, got.Equal(decimal.NewFromInt(8)),
		"sin stock previo el costo es el de la entrada, fue %s", got)

	got = pricing.AverageCost(0, decimal.Zero, 0, decimal.NewFromInt(8))
	assert.True(t, got.IsZero(), "total cero no debe dividir por cero")
}
