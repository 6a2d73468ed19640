package debounce_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/instock-client/pkg/debounce"
)

// recorder acumula los valores aplicados por las ejecuciones.
type recorder struct {
	mu      sync.Mutex
	applied []string
}

func (r *recorder) add(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = append(r.applied, v)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.applied...)
}

// Una ráfaga de Triggers dentro de la ventana colapsa en una sola ejecución
// con el último valor.
func TestOp_RafagaColapsaEnUltimoValor(t *testing.T) {
	rec := &recorder{}
	op := debounce.New(40*time.Millisecond, func(v string, g debounce.Guard[string]) {
		if g.Latest() {
			rec.add(v)
		}
	})
	defer op.Stop()

	op.Trigger("123")
	op.Trigger("1234")
	op.Trigger("12345")

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []string{"12345"}, rec.snapshot(),
		"solo la ráfaga terminal debe ejecutarse, con el valor final")
}

// Dos Triggers espaciados ejecutan ambos, en orden.
func TestOp_TriggersEspaciadosEjecutanAmbos(t *testing.T) {
	rec := &recorder{}
	op := debounce.New(20*time.Millisecond, func(v string, g debounce.Guard[string]) {
		if g.Latest() {
			rec.add(v)
		}
	})
	defer op.Stop()

	op.Trigger("primero")
	time.Sleep(80 * time.Millisecond)
	op.Trigger("segundo")
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, []string{"primero", "segundo"}, rec.snapshot())
}

// La última respuesta gana: una ejecución lenta que resuelve después de una
// más nueva debe descartar su resultado.
func TestOp_RespuestaObsoletaSeDescarta(t *testing.T) {
	rec := &recorder{}
	release := make(chan struct{})
	op := debounce.New(10*time.Millisecond, func(v string, g debounce.Guard[string]) {
		if v == "lenta" {
			<-release // simula una llamada de red que tarda
		}
		if g.Latest() {
			rec.add(v)
		}
	})
	defer op.Stop()

	op.Trigger("lenta")
	time.Sleep(40 * time.Millisecond) // la ejecución "lenta" ya arrancó
	op.Trigger("rapida")
	time.Sleep(40 * time.Millisecond) // "rapida" aplicó su resultado
	close(release)                    // "lenta" resuelve tarde
	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, []string{"rapida"}, rec.snapshot(),
		"la respuesta lenta y obsoleta no debe pisar a la más nueva")
}

// Cancel descarta lo pendiente pero la operación sigue usable.
func TestOp_CancelDescartaPendiente(t *testing.T) {
	rec := &recorder{}
	op := debounce.New(30*time.Millisecond, func(v string, g debounce.Guard[string]) {
		if g.Latest() {
			rec.add(v)
		}
	})
	defer op.Stop()

	op.Trigger("descartado")
	op.Cancel()
	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, rec.snapshot(), "Cancel debe evitar la ejecución pendiente")

	op.Trigger("vigente")
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, []string{"vigente"}, rec.snapshot(),
		"después de Cancel la operación sigue aceptando Triggers")
}

// Stop cierra la operación: nada pendiente corre y los Triggers posteriores
// se ignoran.
func TestOp_StopCierra(t *testing.T) {
	rec := &recorder{}
	op := debounce.New(20*time.Millisecond, func(v string, g debounce.Guard[string]) {
		if g.Latest() {
			rec.add(v)
		}
	})

	op.Trigger("pendiente")
	op.Stop()
	op.Trigger("tarde")
	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}
