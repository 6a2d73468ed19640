// Package rest implementa el cliente HTTP del backend InStock.
// Usa net/http de la stdlib; no requiere librerías de terceros.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/instock-client/internal/application/dto"
	"github.com/jhoicas/instock-client/internal/domain"
	"github.com/jhoicas/instock-client/internal/domain/entity"
	"github.com/jhoicas/instock-client/pkg/logger"
)

// TokenSource provee el bearer token vigente (lo implementa el session store).
type TokenSource interface {
	Token() string
}

// Client cliente REST del backend InStock. Todas las operaciones reciben
// context y mapean los fallos HTTP a errores de dominio: 401 → ErrAuthExpired
// (más el hook de sesión expirada), 403 → ErrForbidden, 404 → ErrNotFound,
// resto → ErrNetwork.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	tokens        TokenSource
	onAuthExpired func()
	log           *logger.Logger
}

// NewClient construye el cliente con timeout de red propio.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		log:        log,
	}
}

// OnAuthExpired registra el hook invocado ante un 401 en rutas autenticadas,
// para que la limpieza de sesión viva en un solo lugar.
func (c *Client) OnAuthExpired(fn func()) {
	c.onAuthExpired = fn
}

// ── Auth ──────────────────────────────────────────────────────────────────────

// Login autentica con matrícula y contraseña; devuelve el token opaco.
// Credenciales incorrectas → ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, matricula, senha string) (string, error) {
	var out dto.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/login", dto.LoginRequest{Matricula: matricula, Senha: senha}, &out, false)
	if err != nil {
		if err == domain.ErrAuthExpired {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}
	return out.Token, nil
}

// CurrentUser devuelve el snapshot del usuario autenticado.
func (c *Client) CurrentUser(ctx context.Context) (*entity.User, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/user", nil, &out, true); err != nil {
		return nil, err
	}
	return out.ToEntity(), nil
}

// ── Products ──────────────────────────────────────────────────────────────────

// ListProducts devuelve el listado completo de productos. El filtrado por
// código de barras es responsabilidad del cliente (contrato observado: no
// existe endpoint de búsqueda por barcode).
func (c *Client) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	var out []dto.ProductResponse
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &out, true); err != nil {
		return nil, err
	}
	products := make([]*entity.Product, 0, len(out))
	for _, p := range out {
		products = append(products, p.ToEntity())
	}
	return products, nil
}

// CreateProduct alta de producto nuevo con su primera entrada de stock.
func (c *Client) CreateProduct(ctx context.Context, in dto.CreateProductRequest) error {
	return c.do(ctx, http.MethodPost, "/api/products", in, nil, true)
}

// RegisterEntry registra una entrada de stock contra un producto existente.
func (c *Client) RegisterEntry(ctx context.Context, productID string, in dto.EntryRequest) error {
	return c.do(ctx, http.MethodPost, "/api/products/"+productID+"/entries", in, nil, true)
}

// RegisterSale registra una salida de stock.
func (c *Client) RegisterSale(ctx context.Context, productID string, in dto.SaleRequest) error {
	return c.do(ctx, http.MethodPost, "/api/products/"+productID+"/sale", in, nil, true)
}

// UpdateProduct edición completa desde configuración (name, price, stock,
// min_stock; costo y margen no viajan — ver dto.UpdateProductRequest).
func (c *Client) UpdateProduct(ctx context.Context, productID string, in dto.UpdateProductRequest) error {
	return c.do(ctx, http.MethodPut, "/api/products/"+productID, in, nil, true)
}

// ── Users (administración, solo Supervisor) ──────────────────────────────────

// ListUsers lista los usuarios del sistema.
func (c *Client) ListUsers(ctx context.Context) ([]*entity.User, error) {
	var out dto.UserListResponse
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &out, true); err != nil {
		return nil, err
	}
	users := make([]*entity.User, 0, len(out.Users))
	for _, u := range out.Users {
		users = append(users, u.ToEntity())
	}
	return users, nil
}

// CreateUser alta de usuario.
func (c *Client) CreateUser(ctx context.Context, in dto.CreateUserRequest) error {
	return c.do(ctx, http.MethodPost, "/api/users", in, nil, true)
}

// UpdateUser edición de usuario (también usada por el perfil propio).
func (c *Client) UpdateUser(ctx context.Context, userID string, in dto.UpdateUserRequest) error {
	return c.do(ctx, http.MethodPut, "/api/users/"+userID, in, nil, true)
}

// ChangePassword cambio de contraseña propio.
func (c *Client) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	return c.do(ctx, http.MethodPut, "/api/users/"+userID+"/password", in, nil, true)
}

// DeleteUser elimina un usuario.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+userID, nil, nil, true)
}

// ResetPassword resetea la contraseña de un usuario al valor por defecto.
func (c *Client) ResetPassword(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/api/users/"+userID+"/reset-password", struct{}{}, nil, true)
}

// ── Transporte ────────────────────────────────────────────────────────────────

// do arma la petición, inyecta el bearer token si corresponde y mapea el
// status de la respuesta a errores de dominio. out puede ser nil si el
// cuerpo de la respuesta no interesa.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, authed bool) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("serializar cuerpo: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("armar petición: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.tokens.Token())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decodificar respuesta: %v", domain.ErrNetwork, err)
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		if authed && c.onAuthExpired != nil {
			c.onAuthExpired()
		}
		return domain.ErrAuthExpired
	case resp.StatusCode == http.StatusForbidden:
		return domain.ErrForbidden
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		code, msg := readError(resp.Body)
		if code == "INSUFFICIENT_STOCK" {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("%w: %s (HTTP %d)", domain.ErrNetwork, msg, resp.StatusCode)
	default:
		_, msg := readError(resp.Body)
		c.log.Debug().
			Int("status", resp.StatusCode).
			Str("method", method).
			Str("path", path).
			Str("message", msg).
			Msg("respuesta de error del backend")
		return fmt.Errorf("%w: %s (HTTP %d)", domain.ErrNetwork, msg, resp.StatusCode)
	}
}

// readError intenta extraer código y mensaje del cuerpo de error.
func readError(r io.Reader) (code, message string) {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "", "sin detalle"
	}
	var body dto.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Code, body.Message
	}
	return "", string(raw)
}
