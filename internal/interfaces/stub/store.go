package stub

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/instock-client/internal/application/dto"
	"github.com/jhoicas/instock-client/internal/domain"
	"github.com/jhoicas/instock-client/internal/domain/entity"
	"github.com/jhoicas/instock-client/internal/domain/pricing"
)

// DefaultResetPassword contraseña asignada por POST /users/{id}/reset-password.
const DefaultResetPassword = "senha123"

// storeUser usuario con su hash de contraseña (nunca sale del store en plano).
type storeUser struct {
	entity.User
	PasswordHash string
}

// Store almacenamiento en memoria del backend stub. Suficiente para
// desarrollo local y tests; la persistencia real es responsabilidad del
// backend productivo, no de este fixture.
type Store struct {
	mu       sync.Mutex
	users    map[string]*storeUser
	products map[string]*entity.Product
}

// NewStore construye el store sembrado con un supervisor (matrícula 1000 /
// admin123), un operador (2000 / operador123) y un producto de ejemplo.
func NewStore() *Store {
	s := &Store{
		users:    make(map[string]*storeUser),
		products: make(map[string]*entity.Product),
	}
	s.seedUser("Supervisora Semilla", "1000", "admin123", entity.NivelSupervisor)
	s.seedUser("Operador Semilla", "2000", "operador123", entity.NivelUsuario)

	cost := decimal.NewFromFloat(10)
	margin := decimal.NewFromInt(40)
	p := &entity.Product{
		ID:        uuid.New().String(),
		Barcode:   "7891000100103",
		Name:      "Leche condensada 395g",
		Supplier:  "Distribuidora Semilla",
		Cost:      cost,
		Margin:    margin,
		Price:     pricing.Derive(cost, margin),
		Stock:     25,
		MinStock:  5,
		EntryDate: time.Now(),
	}
	s.products[p.ID] = p
	return s
}

func (s *Store) seedUser(nome, matricula, senha, nivel string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	u := &storeUser{
		User: entity.User{
			ID:        uuid.New().String(),
			Name:      nome,
			Matricula: matricula,
			Nivel:     nivel,
		},
		PasswordHash: string(hash),
	}
	s.users[u.ID] = u
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

// Authenticate verifica matrícula y contraseña; registra last_login.
func (s *Store) Authenticate(matricula, senha string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Matricula == matricula {
			if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(senha)); err != nil {
				return nil, domain.ErrInvalidCredentials
			}
			u.LastLogin = time.Now()
			snapshot := u.User
			return &snapshot, nil
		}
	}
	return nil, domain.ErrInvalidCredentials
}

// UserByID devuelve el snapshot del usuario o nil.
func (s *Store) UserByID(id string) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	snapshot := u.User
	return &snapshot
}

// ListUsers devuelve los usuarios ordenados por matrícula.
func (s *Store) ListUsers() []*entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.User, 0, len(s.users))
	for _, u := range s.users {
		snapshot := u.User
		out = append(out, &snapshot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Matricula < out[j].Matricula })
	return out
}

// CreateUser alta de usuario; matrícula duplicada se rechaza.
func (s *Store) CreateUser(in dto.CreateUserRequest) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Matricula == in.Matricula {
			return nil, domain.ErrValidationFailed
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Senha), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	nivel := in.Nivel
	if nivel == "" {
		nivel = entity.NivelUsuario
	}
	u := &storeUser{
		User: entity.User{
			ID:        uuid.New().String(),
			Name:      in.Nome,
			Matricula: in.Matricula,
			Nivel:     nivel,
		},
		PasswordHash: string(hash),
	}
	s.users[u.ID] = u
	snapshot := u.User
	return &snapshot, nil
}

// UpdateUser edición parcial: solo los campos no vacíos se aplican.
func (s *Store) UpdateUser(id string, in dto.UpdateUserRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	if in.Nome != "" {
		u.Name = in.Nome
	}
	if in.Matricula != "" {
		u.Matricula = in.Matricula
	}
	if in.Nivel != "" {
		u.Nivel = in.Nivel
	}
	return nil
}

// ChangePassword verifica la contraseña actual y fija la nueva.
func (s *Store) ChangePassword(id, senhaAtual, novaSenha string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(senhaAtual)); err != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(novaSenha), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// DeleteUser elimina el usuario.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// ResetPassword fija la contraseña por defecto.
func (s *Store) ResetPassword(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultResetPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// ── Productos ─────────────────────────────────────────────────────────────────

// ListProducts devuelve los productos ordenados por nombre.
func (s *Store) ListProducts() []*entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		snapshot := *p
		out = append(out, &snapshot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CreateProduct alta de producto; barcode duplicado se rechaza.
func (s *Store) CreateProduct(in dto.CreateProductRequest) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.Barcode == in.Barcode {
			return nil, domain.ErrValidationFailed
		}
	}
	p := &entity.Product{
		ID:        uuid.New().String(),
		Barcode:   in.Barcode,
		Name:      in.Name,
		Supplier:  in.Supplier,
		Cost:      in.Cost,
		Margin:    in.Margin,
		Price:     in.Price,
		Stock:     in.Stock,
		MinStock:  in.MinStock,
		EntryDate: in.EntryDate,
	}
	s.products[p.ID] = p
	snapshot := *p
	return &snapshot, nil
}

// RegisterEntry incrementa stock y actualiza el costo como promedio
// ponderado; el precio se re-deriva con el margen vigente.
func (s *Store) RegisterEntry(id string, in dto.EntryRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = pricing.AverageCost(p.Stock, p.Cost, in.Quantity, in.Cost)
	p.Stock += in.Quantity
	p.Price = pricing.Derive(p.Cost, p.Margin)
	p.EntryDate = time.Now()
	return nil
}

// RegisterSale decrementa stock; por encima del saldo se rechaza.
func (s *Store) RegisterSale(id string, in dto.SaleRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	if in.Quantity > p.Stock {
		return domain.ErrInsufficientStock
	}
	p.Stock -= in.Quantity
	return nil
}

// UpdateProduct reemplazo de {name, price, stock, min_stock} — el contrato
// del PUT no trae costo ni margen.
func (s *Store) UpdateProduct(id string, in dto.UpdateProductRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Name = in.Name
	p.Price = in.Price
	p.Stock = in.Stock
	p.MinStock = in.MinStock
	return nil
}
