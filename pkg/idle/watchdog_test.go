package idle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/instock-client/pkg/idle"
)

// Inactividad durante el timeout completo dispara el callback exactamente
// una vez: el watchdog no se re-arma solo.
func TestWatchdog_DisparaUnaVezPorCiclo(t *testing.T) {
	var fired int32
	w := idle.NewWatchdog(40*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	w.Start()
	defer w.Stop()

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired),
		"sin actividad debe disparar exactamente una vez")
}

// La actividad antes del vencimiento reinicia la cuenta: el callback no se
// dispara en el deadline original.
func TestWatchdog_ActividadReiniciaCuenta(t *testing.T) {
	var fired int32
	w := idle.NewWatchdog(80*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	w.Start()
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	w.Activity()
	time.Sleep(50 * time.Millisecond) // deadline original ya pasó (100ms > 80ms)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired),
		"la actividad debe haber corrido el deadline")

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired),
		"tras el nuevo periodo completo sí debe disparar")
}

// Ráfagas de actividad colapsan en un único timer pendiente (sin fugas).
func TestWatchdog_RafagaDeActividadColapsa(t *testing.T) {
	var fired int32
	w := idle.NewWatchdog(40*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	w.Start()
	defer w.Stop()

	for i := 0; i < 50; i++ {
		w.Activity()
		time.Sleep(time.Millisecond)
	}
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired),
		"50 reinicios seguidos deben terminar en un único disparo")
}

// Stop libera el timer: el callback nunca corre contra una pantalla
// desmontada.
func TestWatchdog_StopCancelaPendiente(t *testing.T) {
	var fired int32
	w := idle.NewWatchdog(30*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	w.Start()
	w.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired),
		"después de Stop el callback no debe dispararse")
}

// Activity sobre un watchdog ya disparado no lo revive.
func TestWatchdog_NoSeRearmaSolo(t *testing.T) {
	var fired int32
	w := idle.NewWatchdog(30*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	w.Start()
	defer w.Stop()

	time.Sleep(80 * time.Millisecond)
	w.Activity()
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired),
		"re-armar requiere Start explícito del dueño")
}
