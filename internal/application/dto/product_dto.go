package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/instock-client/internal/domain/entity"
)

// ProductResponse producto tal como lo devuelve GET /api/products.
type ProductResponse struct {
	ID        string          `json:"id"`
	Barcode   string          `json:"barcode"`
	Name      string          `json:"name"`
	Supplier  string          `json:"supplier"`
	EntryDate time.Time       `json:"entry_date"`
	Cost      decimal.Decimal `json:"cost"`
	Margin    decimal.Decimal `json:"margin"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	MinStock  int             `json:"min_stock"`
}

// ToEntity convierte la respuesta al producto de dominio.
func (r ProductResponse) ToEntity() *entity.Product {
	return &entity.Product{
		ID:        r.ID,
		Barcode:   r.Barcode,
		Name:      r.Name,
		Supplier:  r.Supplier,
		EntryDate: r.EntryDate,
		Cost:      r.Cost,
		Margin:    r.Margin,
		Price:     r.Price,
		Stock:     r.Stock,
		MinStock:  r.MinStock,
	}
}

// FromProduct convierte el producto de dominio a la representación de wire.
func FromProduct(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Barcode:   p.Barcode,
		Name:      p.Name,
		Supplier:  p.Supplier,
		EntryDate: p.EntryDate,
		Cost:      p.Cost,
		Margin:    p.Margin,
		Price:     p.Price,
		Stock:     p.Stock,
		MinStock:  p.MinStock,
	}
}

// CreateProductRequest alta de producto nuevo (POST /api/products).
// Stock inicial = Quantity de la primera entrada; MinStock por defecto 5.
type CreateProductRequest struct {
	Barcode   string          `json:"barcode"`
	Name      string          `json:"name"`
	Supplier  string          `json:"supplier"`
	Quantity  int             `json:"quantity"`
	Cost      decimal.Decimal `json:"cost"`
	Margin    decimal.Decimal `json:"margin"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	MinStock  int             `json:"min_stock"`
	EntryDate time.Time       `json:"entry_date"`
}

// EntryRequest entrada de stock contra producto existente
// (POST /api/products/{id}/entries). Escritura incremental: no reemplaza
// nombre/proveedor para no pisar ediciones concurrentes de otros campos.
type EntryRequest struct {
	Quantity int             `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
}

// SaleRequest salida de stock (POST /api/products/{id}/sale).
type SaleRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateProductRequest edición completa desde configuración
// (PUT /api/products/{id}). El contrato observado solo reenvía estos cuatro
// campos: costo y margen NO viajan, aunque el margen editado sí recalcula
// price localmente antes del envío.
type UpdateProductRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	MinStock int             `json:"min_stock"`
}
