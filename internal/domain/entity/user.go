package entity

import "time"

// Niveles válidos para User.
const (
	NivelSupervisor = "Supervisor"
	NivelUsuario    = "Usuário"
)

// User snapshot inmutable del usuario autenticado, tal como lo devuelve el
// backend. El nivel decide la visibilidad de configuración y la edición del
// margen.
type User struct {
	ID        string
	Name      string
	Matricula string // identificador de empleado usado para login
	Nivel     string // Supervisor, Usuário
	LastLogin time.Time
}

// IsSupervisor true si el usuario tiene nivel Supervisor.
func (u *User) IsSupervisor() bool {
	return u != nil && u.Nivel == NivelSupervisor
}
