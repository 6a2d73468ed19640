// Package stub implementa un backend InStock en memoria para desarrollo
// local y tests del cliente. Cubre el contrato completo: login, snapshot de
// usuario, productos con sub-recursos de entrada/salida y administración de
// usuarios con RBAC de Supervisor.
package stub

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/instock-client/pkg/logger"
)

// Config configuración del stub.
type Config struct {
	JWTSecret     string
	JWTExpMinutes int
	JWTIssuer     string
}

// Server backend stub sobre Fiber.
type Server struct {
	cfg   Config
	store *Store
	log   *logger.Logger
}

// New construye el servidor con un store sembrado.
func New(cfg Config, log *logger.Logger) *Server {
	return &Server{cfg: cfg, store: NewStore(), log: log}
}

// Store expone el store en memoria (los tests lo inspeccionan directo).
func (s *Server) Store() *Store {
	return s.store
}

// App arma la aplicación Fiber con todas las rutas del contrato.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "instock-stub",
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	api := app.Group("/api")

	// Auth (público)
	api.Post("/login", s.login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(s.cfg.JWTSecret))
	protected.Get("/auth/user", s.currentUser)

	products := protected.Group("/products")
	products.Get("/", s.listProducts)
	products.Post("/", s.createProduct)
	products.Post("/:id/entries", s.registerEntry)
	products.Post("/:id/sale", s.registerSale)
	products.Put("/:id", s.updateProduct)

	// Usuarios: perfil propio abierto a cualquier autenticado; el resto
	// exige Supervisor (el handler de update re-chequea identidad).
	usersGroup := protected.Group("/users")
	usersGroup.Put("/:id", s.updateUser)
	usersGroup.Put("/:id/password", s.changePassword)
	usersGroup.Get("/", RequireSupervisor(), s.listUsers)
	usersGroup.Post("/", RequireSupervisor(), s.createUser)
	usersGroup.Delete("/:id", RequireSupervisor(), s.deleteUser)
	usersGroup.Post("/:id/reset-password", RequireSupervisor(), s.resetPassword)

	return app
}
