package forms

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/instock-client/internal/application/dto"
	"github.com/jhoicas/instock-client/internal/application/lookup"
	"github.com/jhoicas/instock-client/internal/domain"
	"github.com/jhoicas/instock-client/internal/domain/entity"
	"github.com/jhoicas/instock-client/internal/domain/pricing"
	"github.com/jhoicas/instock-client/pkg/logger"
)

// defaultMinStock stock mínimo asignado a productos nuevos.
const defaultMinStock = 5

// EntryAPI puerto hacia el backend para la pantalla de entradas.
type EntryAPI interface {
	CreateProduct(ctx context.Context, in dto.CreateProductRequest) error
	RegisterEntry(ctx context.Context, productID string, in dto.EntryRequest) error
}

// EntryDraft borrador del formulario de entrada. Campos como los tipea el
// usuario; Price es derivado y nunca se edita directo.
type EntryDraft struct {
	Barcode   string
	Name      string
	Supplier  string
	EntryDate time.Time
	Quantity  string
	Cost      string
	Margin    string
	Price     string
}

// EntryForm controlador del formulario de entrada de stock. Producto
// existente → escritura incremental contra el sub-recurso de entradas;
// producto nuevo → alta completa.
type EntryForm struct {
	mu       sync.Mutex
	api      EntryAPI
	users    UserSource
	defaults Defaults
	log      *logger.Logger

	state    State
	draft    EntryDraft
	existing *entity.Product
}

// NewEntryForm construye el formulario con el borrador en valores por defecto.
func NewEntryForm(api EntryAPI, users UserSource, defaults Defaults, log *logger.Logger) *EntryForm {
	f := &EntryForm{api: api, users: users, defaults: defaults, log: log}
	f.resetLocked()
	return f
}

// State estado vigente del ciclo de envío.
func (f *EntryForm) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Draft copia del borrador vigente.
func (f *EntryForm) Draft() EntryDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// IsExisting true si la búsqueda marcó un producto existente.
func (f *EntryForm) IsExisting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing != nil
}

// SetBarcode actualiza el código de barras tipeado (la pantalla alimenta en
// paralelo al controlador de búsqueda).
func (f *EntryForm) SetBarcode(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Barcode = strings.TrimSpace(v)
}

// SetName actualiza el nombre del producto.
func (f *EntryForm) SetName(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Name = v
}

// SetSupplier actualiza el proveedor.
func (f *EntryForm) SetSupplier(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Supplier = v
}

// SetQuantity actualiza la cantidad de la entrada.
func (f *EntryForm) SetQuantity(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Quantity = strings.TrimSpace(v)
}

// SetCost actualiza el costo y recalcula el precio derivado en forma
// síncrona, antes del próximo render.
func (f *EntryForm) SetCost(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Cost = strings.TrimSpace(v)
	f.derivePriceLocked()
}

// SetMargin actualiza el margen. Solo un Supervisor puede editarlo; para el
// resto el campo queda deshabilitado pero su valor sembrado sigue
// participando del cálculo del precio.
func (f *EntryForm) SetMargin(v string) error {
	if !domain.CanEditMargin(f.users.User()) {
		return domain.ErrForbidden
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Margin = strings.TrimSpace(v)
	f.derivePriceLocked()
	return nil
}

// ApplyLookup aplica el resultado de la búsqueda por código de barras:
// match → siembra nombre/proveedor/margen/precio y marca existente;
// sin match → limpia los campos derivados a sus valores por defecto.
func (f *EntryForm) ApplyLookup(r lookup.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.Existing {
		f.existing = r.Product
		f.draft.Name = r.Product.Name
		f.draft.Supplier = r.Product.Supplier
		f.draft.Margin = r.Product.Margin.String()
		f.draft.Price = r.Product.Price.StringFixed(2)
		return
	}
	f.existing = nil
	f.draft.Name = ""
	f.draft.Supplier = ""
	f.draft.Margin = f.defaults.margin()
	f.draft.Price = ""
}

// Submit valida y despacha la escritura. Exactamente una escritura en vuelo:
// un Submit mientras otro está pendiente devuelve ErrSubmitPending sin tocar
// la red. Éxito → el borrador vuelve a los valores por defecto; fallo → el
// borrador se conserva para corregir y reenviar (sin reintento automático).
func (f *EntryForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return domain.ErrSubmitPending
	}
	f.state = StateValidating

	existing := f.existing
	draft := f.draft
	qty, err := f.validateLocked(draft, existing)
	if err != nil {
		f.state = StateIdle
		f.mu.Unlock()
		return err
	}
	f.state = StateSubmitting
	f.mu.Unlock()

	cost := pricing.ParseAmount(draft.Cost)
	if existing != nil {
		err = f.api.RegisterEntry(ctx, existing.ID, dto.EntryRequest{Quantity: qty, Cost: cost})
	} else {
		margin := pricing.ParseAmount(draft.Margin)
		err = f.api.CreateProduct(ctx, dto.CreateProductRequest{
			Barcode:   draft.Barcode,
			Name:      draft.Name,
			Supplier:  draft.Supplier,
			Quantity:  qty,
			Cost:      cost.Round(2),
			Margin:    margin.Round(2),
			Price:     pricing.Derive(cost, margin),
			Stock:     qty,
			MinStock:  defaultMinStock,
			EntryDate: f.defaults.now(),
		})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateFailed
		f.log.Warn().Err(err).Str("barcode", draft.Barcode).Msg("entrada de stock falló")
		return err
	}
	f.resetLocked()
	f.state = StateSucceeded
	return nil
}

// validateLocked reglas por variante: producto existente solo exige cantidad
// y costo; producto nuevo exige barcode válido y todos los campos.
func (f *EntryForm) validateLocked(draft EntryDraft, existing *entity.Product) (int, error) {
	if existing == nil {
		if !entity.IsValidBarcode(draft.Barcode) {
			return 0, domain.ErrInvalidBarcode
		}
		if draft.Name == "" || draft.Supplier == "" || draft.Quantity == "" || draft.Cost == "" {
			return 0, domain.ErrValidationFailed
		}
	} else if draft.Quantity == "" || draft.Cost == "" {
		return 0, domain.ErrValidationFailed
	}
	qty, err := strconv.Atoi(draft.Quantity)
	if err != nil || qty <= 0 {
		return 0, domain.ErrValidationFailed
	}
	return qty, nil
}

// resetLocked vuelve el borrador a los valores por defecto (margen 40,
// fecha del día, identificadores limpios). Se invoca con f.mu tomado.
func (f *EntryForm) resetLocked() {
	f.draft = EntryDraft{
		EntryDate: f.defaults.now(),
		Margin:    f.defaults.margin(),
	}
	f.existing = nil
	f.state = StateIdle
}

// derivePriceLocked recalcula Price = Cost * (1 + Margin/100). Entradas no
// numéricas cuentan como cero. Se invoca con f.mu tomado.
func (f *EntryForm) derivePriceLocked() {
	cost := pricing.ParseAmount(f.draft.Cost)
	margin := pricing.ParseAmount(f.draft.Margin)
	f.draft.Price = pricing.Derive(cost, margin).StringFixed(2)
}
