package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BarcodeLength longitud exacta del código de barras EAN-13.
const BarcodeLength = 13

// Product producto del inventario. Invariante: Price == Cost * (1 + Margin/100),
// recalculado cada vez que cambian costo o margen; nunca se edita directo.
type Product struct {
	ID        string
	Barcode   string // 13 dígitos numéricos, único
	Name      string
	Supplier  string
	Cost      decimal.Decimal
	Margin    decimal.Decimal // porcentaje de ganancia sobre el costo
	Price     decimal.Decimal // precio de venta derivado
	Stock     int
	MinStock  int
	EntryDate time.Time
}

// IsValidBarcode true si s tiene exactamente 13 dígitos numéricos.
func IsValidBarcode(s string) bool {
	if len(s) != BarcodeLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
