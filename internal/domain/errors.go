package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrAuthExpired        = errors.New("sesión expirada")
	ErrForbidden          = errors.New("acceso denegado")
	ErrValidationFailed   = errors.New("campos requeridos faltantes o inválidos")
	ErrInvalidBarcode     = errors.New("el código de barras debe tener exactamente 13 dígitos")
	ErrInsufficientStock  = errors.New("stock insuficiente para la salida solicitada")
	ErrSubmitPending      = errors.New("ya hay un envío en curso")
	ErrNetwork            = errors.New("error de red o del servidor")
)
