package dto

import (
	"time"

	"github.com/jhoicas/instock-client/internal/domain/entity"
)

// LoginRequest credenciales de acceso (matrícula + contraseña).
type LoginRequest struct {
	Matricula string `json:"matricula"`
	Senha     string `json:"senha"`
}

// LoginResponse token opaco devuelto por POST /api/login.
type LoginResponse struct {
	Token string `json:"token"`
}

// UserResponse snapshot del usuario devuelto por GET /api/auth/user.
type UserResponse struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Matricula string    `json:"matricula"`
	Nivel     string    `json:"nivel"`
	LastLogin time.Time `json:"last_login"`
}

// ToEntity convierte la respuesta al snapshot de dominio.
func (r UserResponse) ToEntity() *entity.User {
	return &entity.User{
		ID:        r.ID,
		Name:      r.Nome,
		Matricula: r.Matricula,
		Nivel:     r.Nivel,
		LastLogin: r.LastLogin,
	}
}

// FromUser convierte el snapshot de dominio a la representación de wire.
func FromUser(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Nome:      u.Name,
		Matricula: u.Matricula,
		Nivel:     u.Nivel,
		LastLogin: u.LastLogin,
	}
}
