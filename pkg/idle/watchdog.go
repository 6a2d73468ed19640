// Package idle implementa el watchdog de inactividad: una cuenta regresiva
// que cualquier señal de actividad reinicia, y que al agotarse dispara el
// callback exactamente una vez por ciclo de armado.
package idle

import (
	"sync"
	"time"
)

// Watchdog cuenta regresiva de inactividad. Activity() la reinicia al valor
// completo; si llega a cero sin interrupciones, onTimeout se dispara una
// sola vez. Re-armar requiere llamar Start() de nuevo.
type Watchdog struct {
	mu        sync.Mutex
	timeout   time.Duration
	onTimeout func()
	timer     *time.Timer
	gen       uint64
	armed     bool
	stopped   bool
}

// NewWatchdog construye el watchdog sin armarlo.
func NewWatchdog(timeout time.Duration, onTimeout func()) *Watchdog {
	return &Watchdog{timeout: timeout, onTimeout: onTimeout}
}

// Start arma (o re-arma) la cuenta regresiva desde el valor completo.
func (w *Watchdog) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.armed = true
	w.rescheduleLocked()
}

// Activity señal de actividad del usuario (tecla, click, movimiento).
// Reinicia la cuenta regresiva si el watchdog está armado; ráfagas de
// actividad colapsan siempre en un único timer pendiente.
func (w *Watchdog) Activity() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped || !w.armed {
		return
	}
	w.rescheduleLocked()
}

// Stop cancela el timer pendiente y libera el watchdog. El callback no se
// dispara después de Stop aunque el timer ya hubiera vencido.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	w.armed = false
	w.gen++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// rescheduleLocked cancela el timer vigente y agenda uno nuevo. Se invoca
// con w.mu tomado.
func (w *Watchdog) rescheduleLocked() {
	w.gen++
	gen := w.gen
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.timeout, func() {
		w.mu.Lock()
		if w.stopped || !w.armed || gen != w.gen {
			// Hubo actividad (o Stop) entre el vencimiento y la toma del lock.
			w.mu.Unlock()
			return
		}
		w.armed = false // un disparo por ciclo de armado
		w.mu.Unlock()
		w.onTimeout()
	})
}
