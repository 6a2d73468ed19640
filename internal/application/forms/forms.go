// Package forms implementa los controladores de formulario de entrada, salida
// y edición de producto. Cada envío atraviesa la misma máquina de estados:
//
//	Idle → Validating → Submitting → Succeeded | Failed
//
// con serialización del camino de submit: un segundo intento mientras hay una
// escritura pendiente se rechaza (ErrSubmitPending), nunca se duplica la
// escritura.
package forms

import (
	"time"

	"github.com/jhoicas/instock-client/internal/domain/entity"
)

// State estado del ciclo de envío de un formulario.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSucceeded
	StateFailed
)

// String nombre legible del estado (para logs).
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// UserSource accessor del usuario autenticado (lo implementa session.Store).
// Inyectado en lugar de un singleton global para conservar testabilidad.
type UserSource interface {
	User() *entity.User
}

// Defaults valores por defecto del formulario al montar y tras un envío
// exitoso: margen 40 y fecha del día salvo configuración distinta.
type Defaults struct {
	Margin string           // porcentaje, ej. "40"
	Now    func() time.Time // inyectable en tests
}

func (d Defaults) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Defaults) margin() string {
	if d.Margin == "" {
		return "40"
	}
	return d.Margin
}
