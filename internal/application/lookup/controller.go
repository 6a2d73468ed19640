// Package lookup implementa la búsqueda de producto por código de barras con
// debounce: cada tecla alimenta al controlador y solo la ráfaga terminal (300ms
// de silencio) dispara la consulta al backend.
package lookup

import (
	"context"
	"time"

	"github.com/jhoicas/instock-client/internal/domain/entity"
	"github.com/jhoicas/instock-client/pkg/debounce"
	"github.com/jhoicas/instock-client/pkg/logger"
)

// ProductLister puerto hacia el backend. El contrato observado no tiene
// búsqueda por barcode: se trae el listado completo y se filtra localmente.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]*entity.Product, error)
}

// Result resultado de una búsqueda terminada. Existing=false cubre tanto
// "no hay match" como "la consulta falló": un barcode incompleto es estado
// transitorio esperado mientras se tipea, no un error para el usuario.
type Result struct {
	Barcode  string
	Existing bool
	Product  *entity.Product
}

// Controller controlador de búsqueda con debounce. No es dueño del estado del
// formulario: entrega resultados por callback y la pantalla decide qué poblar.
type Controller struct {
	lister   ProductLister
	op       *debounce.Op[string]
	onResult func(Result)
	log      *logger.Logger
}

// NewController construye el controlador. wait es la ventana de debounce
// (300ms en el flujo estándar); onResult se invoca con cada resultado
// aplicable — los resultados de consultas obsoletas se descartan.
func NewController(wait time.Duration, lister ProductLister, onResult func(Result), log *logger.Logger) *Controller {
	c := &Controller{lister: lister, onResult: onResult, log: log}
	c.op = debounce.New(wait, c.search)
	return c
}

// Input recibe el código de barras en cada tecla. Largo distinto de 13 →
// estado neutral inmediato sin tocar la red (y cancela cualquier consulta
// pendiente o en vuelo); exactamente 13 → agenda la consulta con debounce.
func (c *Controller) Input(barcode string) {
	if len(barcode) != entity.BarcodeLength {
		c.op.Cancel()
		c.onResult(Result{Barcode: barcode})
		return
	}
	c.op.Trigger(barcode)
}

// Close cancela timers pendientes e invalida consultas en vuelo. Se llama al
// desmontar la pantalla; respuestas tardías se ignoran.
func (c *Controller) Close() {
	c.op.Stop()
}

// search corre tras la ventana de silencio. Aplica la regla "la última
// respuesta gana": si mientras la consulta estaba en vuelo hubo otro Input,
// el resultado se descarta aunque llegue después.
func (c *Controller) search(barcode string, g debounce.Guard[string]) {
	products, err := c.lister.ListProducts(context.Background())
	if !g.Latest() {
		c.log.Debug().Str("barcode", barcode).Msg("descartando respuesta obsoleta de búsqueda")
		return
	}
	if err != nil {
		// Degrada en silencio a "no encontrado" (se registra para diagnóstico).
		c.log.Debug().Err(err).Str("barcode", barcode).Msg("búsqueda de producto falló")
		c.onResult(Result{Barcode: barcode})
		return
	}

	var match *entity.Product
	matches := 0
	for _, p := range products {
		if p.Barcode == barcode {
			matches++
			if match == nil {
				match = p // primer match gana
			}
		}
	}
	if matches > 1 {
		c.log.Warn().Str("barcode", barcode).Int("matches", matches).
			Msg("barcode duplicado en el backend: inconsistencia de datos")
	}
	if match == nil {
		c.onResult(Result{Barcode: barcode})
		return
	}
	c.onResult(Result{Barcode: barcode, Existing: true, Product: match})
}
