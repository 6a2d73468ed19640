// Package users casos de uso de administración de usuarios (panel de
// configuración, solo Supervisor) y autogestión de perfil.
package users

import (
	"context"
	"strconv"
	"strings"

	"github.com/jhoicas/instock-client/internal/application/dto"
	"github.com/jhoicas/instock-client/internal/domain"
	"github.com/jhoicas/instock-client/internal/domain/entity"
	"github.com/jhoicas/instock-client/pkg/logger"
)

// AdminAPI puerto hacia el backend para administración de usuarios.
type AdminAPI interface {
	ListUsers(ctx context.Context) ([]*entity.User, error)
	CreateUser(ctx context.Context, in dto.CreateUserRequest) error
	UpdateUser(ctx context.Context, userID string, in dto.UpdateUserRequest) error
	ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error
	DeleteUser(ctx context.Context, userID string) error
	ResetPassword(ctx context.Context, userID string) error
}

// UserSource accessor del usuario autenticado.
type UserSource interface {
	User() *entity.User
}

// UseCase administración de usuarios. El chequeo de capacidad corre del lado
// del cliente antes de cada llamada; el backend lo vuelve a imponer.
type UseCase struct {
	api   AdminAPI
	users UserSource
	log   *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(api AdminAPI, users UserSource, log *logger.Logger) *UseCase {
	return &UseCase{api: api, users: users, log: log}
}

// List lista los usuarios del sistema (solo Supervisor).
func (uc *UseCase) List(ctx context.Context) ([]*entity.User, error) {
	if !domain.CanManageUsers(uc.users.User()) {
		return nil, domain.ErrForbidden
	}
	return uc.api.ListUsers(ctx)
}

// Create alta de usuario. Exige nombre, matrícula numérica y contraseña.
func (uc *UseCase) Create(ctx context.Context, nome, matricula, senha, nivel string) error {
	if !domain.CanManageUsers(uc.users.User()) {
		return domain.ErrForbidden
	}
	nome = strings.TrimSpace(nome)
	matricula = strings.TrimSpace(matricula)
	if nome == "" || matricula == "" || senha == "" {
		return domain.ErrValidationFailed
	}
	if _, err := strconv.Atoi(matricula); err != nil {
		return domain.ErrValidationFailed // la matrícula es solo numérica
	}
	if nivel == "" {
		nivel = entity.NivelUsuario
	}
	return uc.api.CreateUser(ctx, dto.CreateUserRequest{
		Nome:      nome,
		Matricula: matricula,
		Senha:     senha,
		Nivel:     nivel,
	})
}

// Update edición de usuario desde configuración.
func (uc *UseCase) Update(ctx context.Context, userID string, in dto.UpdateUserRequest) error {
	if !domain.CanManageUsers(uc.users.User()) {
		return domain.ErrForbidden
	}
	return uc.api.UpdateUser(ctx, userID, in)
}

// Delete elimina un usuario. Eliminarse a sí mismo se rechaza localmente.
func (uc *UseCase) Delete(ctx context.Context, userID string) error {
	current := uc.users.User()
	if !domain.CanManageUsers(current) {
		return domain.ErrForbidden
	}
	if current.ID == userID {
		return domain.ErrValidationFailed
	}
	return uc.api.DeleteUser(ctx, userID)
}

// ResetPassword resetea la contraseña de un usuario al valor por defecto.
func (uc *UseCase) ResetPassword(ctx context.Context, userID string) error {
	if !domain.CanManageUsers(uc.users.User()) {
		return domain.ErrForbidden
	}
	return uc.api.ResetPassword(ctx, userID)
}

// UpdateProfile actualiza el nombre del usuario autenticado (perfil propio).
func (uc *UseCase) UpdateProfile(ctx context.Context, nome string) error {
	current := uc.users.User()
	if current == nil {
		return domain.ErrAuthExpired
	}
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return domain.ErrValidationFailed
	}
	return uc.api.UpdateUser(ctx, current.ID, dto.UpdateUserRequest{Nome: nome})
}

// ChangePassword cambio de contraseña propio. La confirmación se valida
// localmente antes de tocar la red.
func (uc *UseCase) ChangePassword(ctx context.Context, senhaAtual, novaSenha, confirm string) error {
	current := uc.users.User()
	if current == nil {
		return domain.ErrAuthExpired
	}
	if senhaAtual == "" || novaSenha == "" {
		return domain.ErrValidationFailed
	}
	if novaSenha != confirm {
		return domain.ErrValidationFailed // las contraseñas no coinciden
	}
	return uc.api.ChangePassword(ctx, current.ID, dto.ChangePasswordRequest{
		SenhaAtual: senhaAtual,
		NovaSenha:  novaSenha,
	})
}
