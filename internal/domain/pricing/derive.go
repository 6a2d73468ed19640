package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Derive calcula el precio de venta a partir del costo y el margen:
// Precio = Costo * (1 + Margen/100), redondeado a 2 decimales (servicio de
// dominio puro, síncrono — nunca requiere ir a la red).
func Derive(cost, margin decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	factor := decimal.NewFromInt(1).Add(margin.Div(hundred))
	return cost.Mul(factor).Round(2)
}

// AverageCost costo promedio ponderado tras una entrada de stock:
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func AverageCost(stock int, cost decimal.Decimal, entryQty int, entryCost decimal.Decimal) decimal.Decimal {
	total := decimal.NewFromInt(int64(stock + entryQty))
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := decimal.NewFromInt(int64(stock)).Mul(cost).
		Add(decimal.NewFromInt(int64(entryQty)).Mul(entryCost))
	return num.Div(total)
}

// ParseAmount parsea un monto ingresado por el usuario. Entradas vacías o
// no numéricas se tratan como cero, igual que los campos del formulario.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
