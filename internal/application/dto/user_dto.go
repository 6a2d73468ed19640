package dto

// UserListResponse respuesta de GET /api/users (solo Supervisor).
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

// CreateUserRequest alta de usuario (POST /api/users, solo Supervisor).
type CreateUserRequest struct {
	Nome      string `json:"nome"`
	Matricula string `json:"matricula"`
	Senha     string `json:"senha"`
	Nivel     string `json:"nivel"`
}

// UpdateUserRequest edición de usuario (PUT /api/users/{id}).
// El perfil propio solo envía nome; configuración puede enviar todos.
type UpdateUserRequest struct {
	Nome      string `json:"nome,omitempty"`
	Matricula string `json:"matricula,omitempty"`
	Nivel     string `json:"nivel,omitempty"`
}

// ChangePasswordRequest cambio de contraseña propio
// (PUT /api/users/{id}/password).
type ChangePasswordRequest struct {
	SenhaAtual string `json:"senhaAtual"`
	NovaSenha  string `json:"novaSenha"`
}
