package forms

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/jhoicas/instock-client/internal/application/dto"
	"github.com/jhoicas/instock-client/internal/domain"
	"github.com/jhoicas/instock-client/internal/domain/entity"
	"github.com/jhoicas/instock-client/internal/domain/pricing"
	"github.com/jhoicas/instock-client/pkg/logger"
)

// EditAPI puerto hacia el backend para la edición de producto en configuración.
type EditAPI interface {
	UpdateProduct(ctx context.Context, productID string, in dto.UpdateProductRequest) error
}

// EditDraft borrador de la edición de producto. Cost se muestra pero no se
// reenvía; Margin solo lo edita un Supervisor y únicamente afecta el Price
// recalculado localmente.
type EditDraft struct {
	Name     string
	Cost     string
	Margin   string
	Price    string
	MinStock string
}

// EditForm controlador de la edición de producto del panel de configuración.
// El PUT reenvía solo {name, price, stock, min_stock}: costo y margen no
// viajan (contrato observado del backend; asimetría documentada, no se
// "corrige" silenciosamente).
type EditForm struct {
	mu       sync.Mutex
	api      EditAPI
	users    UserSource
	defaults Defaults
	log      *logger.Logger

	state   State
	draft   EditDraft
	product *entity.Product
}

// NewEditForm construye el formulario sin producto cargado.
func NewEditForm(api EditAPI, users UserSource, defaults Defaults, log *logger.Logger) *EditForm {
	return &EditForm{api: api, users: users, defaults: defaults, log: log}
}

// State estado vigente del ciclo de envío.
func (f *EditForm) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Draft copia del borrador vigente.
func (f *EditForm) Draft() EditDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Load carga el producto a editar y siembra el borrador con sus valores.
func (f *EditForm) Load(p *entity.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.product = p
	f.draft = EditDraft{
		Name:     p.Name,
		Cost:     p.Cost.StringFixed(2),
		Margin:   p.Margin.String(),
		Price:    p.Price.StringFixed(2),
		MinStock: strconv.Itoa(p.MinStock),
	}
	f.state = StateIdle
}

// SetName actualiza el nombre.
func (f *EditForm) SetName(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Name = v
}

// SetMinStock actualiza el stock mínimo.
func (f *EditForm) SetMinStock(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.MinStock = strings.TrimSpace(v)
}

// SetMargin actualiza el margen (solo Supervisor) y recalcula el precio
// localmente. El margen editado no llega al backend: solo su efecto sobre
// Price.
func (f *EditForm) SetMargin(v string) error {
	if !domain.CanEditMargin(f.users.User()) {
		return domain.ErrForbidden
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Margin = strings.TrimSpace(v)
	cost := pricing.ParseAmount(f.draft.Cost)
	margin := pricing.ParseAmount(f.draft.Margin)
	f.draft.Price = pricing.Derive(cost, margin).StringFixed(2)
	return nil
}

// Submit valida y reenvía el reemplazo completo de {name, price, stock,
// min_stock}. El stock enviado es el del producto cargado, no un campo
// editable de esta pantalla.
func (f *EditForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return domain.ErrSubmitPending
	}
	f.state = StateValidating

	product := f.product
	draft := f.draft
	if product == nil || draft.Name == "" {
		f.state = StateIdle
		f.mu.Unlock()
		return domain.ErrValidationFailed
	}
	minStock, err := strconv.Atoi(draft.MinStock)
	if err != nil || minStock < 0 {
		f.state = StateIdle
		f.mu.Unlock()
		return domain.ErrValidationFailed
	}
	f.state = StateSubmitting
	f.mu.Unlock()

	price := pricing.Derive(pricing.ParseAmount(draft.Cost), pricing.ParseAmount(draft.Margin))
	err = f.api.UpdateProduct(ctx, product.ID, dto.UpdateProductRequest{
		Name:     strings.TrimSpace(draft.Name),
		Price:    price,
		Stock:    product.Stock,
		MinStock: minStock,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateFailed
		f.log.Warn().Err(err).Str("product_id", product.ID).Msg("edición de producto falló")
		return err
	}
	f.product = nil
	f.draft = EditDraft{Margin: f.defaults.margin()}
	f.state = StateSucceeded
	return nil
}
