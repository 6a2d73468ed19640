// Package debounce implementa una operación asíncrona con debounce de borde
// final: cada Trigger cancela y reagenda el disparo pendiente, y solo la
// ejecución correspondiente al Trigger más reciente puede aplicar su efecto.
package debounce

import (
	"sync"
	"time"
)

// Op operación con debounce. run se ejecuta tras `wait` de silencio desde el
// último Trigger; recibe un Guard para descartar resultados obsoletos cuando
// la ejecución involucra I/O (regla "la última respuesta gana").
type Op[T any] struct {
	mu     sync.Mutex
	wait   time.Duration
	run    func(v T, g Guard[T])
	timer  *time.Timer
	gen    uint64
	closed bool
}

// Guard identifica una ejecución concreta. Antes de aplicar un efecto
// (actualizar estado con la respuesta de red), la ejecución debe verificar
// Latest(): si hubo un Trigger posterior, el resultado se descarta.
type Guard[T any] struct {
	op  *Op[T]
	gen uint64
}

// Latest indica si esta ejecución sigue siendo la más reciente.
func (g Guard[T]) Latest() bool {
	g.op.mu.Lock()
	defer g.op.mu.Unlock()
	return !g.op.closed && g.gen == g.op.gen
}

// New construye la operación. wait <= 0 se trata como disparo inmediato en
// el siguiente tick del timer.
func New[T any](wait time.Duration, run func(v T, g Guard[T])) *Op[T] {
	return &Op[T]{wait: wait, run: run}
}

// Trigger agenda una ejecución con el valor v, cancelando la pendiente si
// existe. Ráfagas de Triggers dentro de la ventana colapsan en una sola
// ejecución con el último valor.
func (o *Op[T]) Trigger(v T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.gen++
	gen := o.gen
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(o.wait, func() {
		o.mu.Lock()
		if o.closed || gen != o.gen {
			// Hubo un Trigger posterior (o Stop) mientras esperábamos.
			o.mu.Unlock()
			return
		}
		o.mu.Unlock()
		o.run(v, Guard[T]{op: o, gen: gen})
	})
}

// Cancel descarta el disparo pendiente sin cerrar la operación. Las
// ejecuciones en vuelo quedan invalidadas (Latest() == false).
func (o *Op[T]) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gen++
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}

// Stop cancela el disparo pendiente y cierra la operación; Triggers
// posteriores se ignoran y cualquier ejecución en vuelo queda invalidada.
func (o *Op[T]) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}
