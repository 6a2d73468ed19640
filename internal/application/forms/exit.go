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
	"github.com/jhoicas/instock-client/pkg/logger"
)

// ExitAPI puerto hacia el backend para la pantalla de salidas.
type ExitAPI interface {
	RegisterSale(ctx context.Context, productID string, in dto.SaleRequest) error
}

// ExitDraft borrador del formulario de salida. Name y Balance los siembra la
// búsqueda; Quantity lo tipea el usuario.
type ExitDraft struct {
	Barcode  string
	Name     string
	ExitDate time.Time
	Quantity string
	Balance  string // saldo actual del producto encontrado
}

// ExitForm controlador del formulario de salida de stock. La salida solo
// procede contra un producto existente y nunca por encima del saldo actual.
type ExitForm struct {
	mu       sync.Mutex
	api      ExitAPI
	defaults Defaults
	log      *logger.Logger

	state    State
	draft    ExitDraft
	existing *entity.Product
}

// NewExitForm construye el formulario con el borrador en valores por defecto.
func NewExitForm(api ExitAPI, defaults Defaults, log *logger.Logger) *ExitForm {
	f := &ExitForm{api: api, defaults: defaults, log: log}
	f.resetLocked()
	return f
}

// State estado vigente del ciclo de envío.
func (f *ExitForm) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Draft copia del borrador vigente.
func (f *ExitForm) Draft() ExitDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// IsExisting true si la búsqueda marcó un producto existente.
func (f *ExitForm) IsExisting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing != nil
}

// SetBarcode actualiza el código de barras tipeado.
func (f *ExitForm) SetBarcode(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Barcode = strings.TrimSpace(v)
}

// SetQuantity actualiza la cantidad a retirar.
func (f *ExitForm) SetQuantity(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Quantity = strings.TrimSpace(v)
}

// ApplyLookup siembra nombre y saldo actual del producto encontrado, o los
// limpia si no hubo match.
func (f *ExitForm) ApplyLookup(r lookup.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.Existing {
		f.existing = r.Product
		f.draft.Name = r.Product.Name
		f.draft.Balance = strconv.Itoa(r.Product.Stock)
		return
	}
	f.existing = nil
	f.draft.Name = ""
	f.draft.Balance = ""
}

// Submit valida y registra la salida. La cantidad por encima del saldo se
// rechaza con ErrInsufficientStock antes de cualquier llamada de red —
// condición fatal para el envío, sin reintento.
func (f *ExitForm) Submit(ctx context.Context) error {
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

	err = f.api.RegisterSale(ctx, existing.ID, dto.SaleRequest{Quantity: qty})

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateFailed
		f.log.Warn().Err(err).Str("barcode", draft.Barcode).Msg("salida de stock falló")
		return err
	}
	f.resetLocked()
	f.state = StateSucceeded
	return nil
}

// validateLocked exige producto existente, cantidad válida y saldo suficiente.
func (f *ExitForm) validateLocked(draft ExitDraft, existing *entity.Product) (int, error) {
	if existing == nil {
		return 0, domain.ErrValidationFailed
	}
	if draft.Quantity == "" {
		return 0, domain.ErrValidationFailed
	}
	qty, err := strconv.Atoi(draft.Quantity)
	if err != nil || qty <= 0 {
		return 0, domain.ErrValidationFailed
	}
	if qty > existing.Stock {
		return 0, domain.ErrInsufficientStock
	}
	return qty, nil
}

// resetLocked vuelve el borrador a los valores por defecto. Se invoca con
// f.mu tomado.
func (f *ExitForm) resetLocked() {
	f.draft = ExitDraft{ExitDate: f.defaults.now()}
	f.existing = nil
	f.state = StateIdle
}
