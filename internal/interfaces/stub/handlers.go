package stub

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/instock-client/internal/application/dto"
	"github.com/jhoicas/instock-client/internal/domain"
	"github.com/jhoicas/instock-client/internal/domain/entity"
	"github.com/jhoicas/instock-client/pkg/jwt"
)

// login POST /api/login — valida credenciales y emite el JWT.
func (s *Server) login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Matricula == "" || in.Senha == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "matricula y senha son requeridos"})
	}
	user, err := s.store.Authenticate(in.Matricula, in.Senha)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "credenciales inválidas"})
	}
	token, err := jwt.Generate(s.cfg.JWTSecret, user.ID, user.Matricula, user.Nivel, s.cfg.JWTIssuer, s.cfg.JWTExpMinutes)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.LoginResponse{Token: token})
}

// currentUser GET /api/auth/user — snapshot del usuario autenticado.
func (s *Server) currentUser(c *fiber.Ctx) error {
	user := s.store.UserByID(GetUserID(c))
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no existe"})
	}
	return c.JSON(dto.FromUser(user))
}

// listProducts GET /api/products — listado completo; el cliente filtra local.
func (s *Server) listProducts(c *fiber.Ctx) error {
	products := s.store.ListProducts()
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.FromProduct(p))
	}
	return c.JSON(out)
}

// createProduct POST /api/products — alta de producto nuevo.
func (s *Server) createProduct(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if !entity.IsValidBarcode(in.Barcode) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "barcode debe tener 13 dígitos"})
	}
	if in.Name == "" || in.Supplier == "" || in.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name, supplier y quantity son requeridos"})
	}
	p, err := s.store.CreateProduct(in)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "barcode ya registrado"})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromProduct(p))
}

// registerEntry POST /api/products/:id/entries — entrada incremental.
func (s *Server) registerEntry(c *fiber.Ctx) error {
	var in dto.EntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser positivo"})
	}
	if err := s.store.RegisterEntry(c.Params("id"), in); err != nil {
		return productError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// registerSale POST /api/products/:id/sale — salida de stock.
func (s *Server) registerSale(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser positivo"})
	}
	if err := s.store.RegisterSale(c.Params("id"), in); err != nil {
		return productError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// updateProduct PUT /api/products/:id — reemplazo de name/price/stock/min_stock.
func (s *Server) updateProduct(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || in.MinStock < 0 || in.Stock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name requerido; stock y min_stock no negativos"})
	}
	if err := s.store.UpdateProduct(c.Params("id"), in); err != nil {
		return productError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func productError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// listUsers GET /api/users — solo Supervisor.
func (s *Server) listUsers(c *fiber.Ctx) error {
	users := s.store.ListUsers()
	out := dto.UserListResponse{Users: make([]dto.UserResponse, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, dto.FromUser(u))
	}
	return c.JSON(out)
}

// createUser POST /api/users — solo Supervisor.
func (s *Server) createUser(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Nome == "" || in.Matricula == "" || in.Senha == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "nome, matricula y senha son requeridos"})
	}
	u, err := s.store.CreateUser(in)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "matrícula ya registrada"})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromUser(u))
}

// updateUser PUT /api/users/:id — el propio usuario o un Supervisor.
func (s *Server) updateUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if id != GetUserID(c) && GetNivel(c) != entity.NivelSupervisor {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo el propio usuario o un Supervisor"})
	}
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := s.store.UpdateUser(id, in); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
	}
	return c.SendStatus(fiber.StatusOK)
}

// changePassword PUT /api/users/:id/password — solo el propio usuario.
func (s *Server) changePassword(c *fiber.Ctx) error {
	id := c.Params("id")
	if id != GetUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo el propio usuario"})
	}
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.SenhaAtual == "" || in.NovaSenha == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "senhaAtual y novaSenha son requeridos"})
	}
	if err := s.store.ChangePassword(id, in.SenhaAtual, in.NovaSenha); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "WRONG_PASSWORD", Message: "contraseña actual incorrecta"})
		}
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
	}
	return c.SendStatus(fiber.StatusOK)
}

// deleteUser DELETE /api/users/:id — solo Supervisor; no puede borrarse a sí mismo.
func (s *Server) deleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == GetUserID(c) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "no puede eliminar su propio usuario"})
	}
	if err := s.store.DeleteUser(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
	}
	return c.SendStatus(fiber.StatusOK)
}

// resetPassword POST /api/users/:id/reset-password — solo Supervisor.
func (s *Server) resetPassword(c *fiber.Ctx) error {
	if err := s.store.ResetPassword(c.Params("id")); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
	}
	return c.SendStatus(fiber.StatusOK)
}
