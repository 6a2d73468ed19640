package domain

import "github.com/jhoicas/instock-client/internal/domain/entity"

// Chequeos de capacidad por rol. Centralizados para que ninguna pantalla
// re-derive `Nivel == Supervisor` por su cuenta; un nivel desconocido
// degrada a permisos de operador.

// CanEditMargin indica si el usuario puede editar el margen de ganancia.
func CanEditMargin(u *entity.User) bool {
	return u != nil && u.Nivel == entity.NivelSupervisor
}

// CanAccessSettings indica si el usuario puede entrar al panel de configuración.
func CanAccessSettings(u *entity.User) bool {
	return u != nil && u.Nivel == entity.NivelSupervisor
}

// CanManageUsers indica si el usuario puede administrar otros usuarios
// (crear, editar, eliminar, resetear contraseñas).
func CanManageUsers(u *entity.User) bool {
	return u != nil && u.Nivel == entity.NivelSupervisor
}
