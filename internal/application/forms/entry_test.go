package forms_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/instock-client/internal/application/dto"
	"github.com/jhoicas/instock-client/internal/application/forms"
	"github.com/jhoicas/instock-client/internal/application/lookup"
	"github.com/jhoicas/instock-client/internal/domain"
	"github.com/jhoicas/instock-client/internal/domain/entity"
	"github.com/jhoicas/instock-client/pkg/logger"
)

// ── Fakes compartidos por los tests de formularios ───────────────────────────

// fakeUsers implementa forms.UserSource con un usuario fijo.
type fakeUsers struct{ user *entity.User }

func (f *fakeUsers) User() *entity.User { return f.user }

func supervisor() *fakeUsers {
	return &fakeUsers{user: &entity.User{ID: "sup-1", Name: "Sofía", Nivel: entity.NivelSupervisor}}
}

func operador() *fakeUsers {
	return &fakeUsers{user: &entity.User{ID: "op-1", Name: "Omar", Nivel: entity.NivelUsuario}}
}

// fakeEntryAPI registra las escrituras y permite bloquearlas (single-flight)
// o forzar un error.
type fakeEntryAPI struct {
	mu      sync.Mutex
	created []dto.CreateProductRequest
	entries []dto.EntryRequest
	err     error
	block   chan struct{} // si no es nil, cada llamada espera aquí
}

func (f *fakeEntryAPI) CreateProduct(_ context.Context, in dto.CreateProductRequest) error {
	f.mu.Lock()
	block, err := f.block, f.err
	f.created = append(f.created, in)
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (f *fakeEntryAPI) RegisterEntry(_ context.Context, _ string, in dto.EntryRequest) error {
	f.mu.Lock()
	block, err := f.block, f.err
	f.entries = append(f.entries, in)
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (f *fakeEntryAPI) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created) + len(f.entries)
}

func fixedDefaults() forms.Defaults {
	return forms.Defaults{
		Margin: "40",
		Now:    func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) },
	}
}

func existingProduct() *entity.Product {
	return &entity.Product{
		ID:       "p-1",
		Barcode:  "7891000100103",
		Name:     "Café Molido",
		Supplier: "Proveedor Sur",
		Cost:     decimal.NewFromInt(10),
		Margin:   decimal.NewFromInt(40),
		Price:    decimal.NewFromInt(14),
		Stock:    25,
		MinStock: 5,
	}
}

// ── EntryForm ────────────────────────────────────────────────────────────────

// El borrador inicial arranca con margen por defecto y fecha del día.
func TestEntryForm_BorradorInicial(t *testing.T) {
	form := forms.NewEntryForm(&fakeEntryAPI{}, operador(), fixedDefaults(), logger.Nop())

	draft := form.Draft()
	assert.Equal(t, "40", draft.Margin)
	assert.Equal(t, fixedDefaults().Now(), draft.EntryDate)
	assert.Equal(t, forms.StateIdle, form.State())
}

// SetCost recalcula el precio derivado en forma síncrona.
func TestEntryForm_CostoRecalculaPrecio(t *testing.T) {
	form := forms.NewEntryForm(&fakeEntryAPI{}, operador(), fixedDefaults(), logger.Nop())

	form.SetCost("10")
	assert.Equal(t, "14.00", form.Draft().Price, "precio = 10 * 1.40")

	form.SetCost("abc")
	assert.Equal(t, "0.00", form.Draft().Price, "costo no numérico cuenta como cero")
}

// Solo un Supervisor puede editar el margen; el valor sembrado sigue
// participando del cálculo para el resto.
func TestEntryForm_MargenSoloSupervisor(t *testing.T) {
	form := forms.NewEntryForm(&fakeEntryAPI{}, operador(), fixedDefaults(), logger.Nop())
	form.SetCost("10")

	err := form.SetMargin("50")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "40", form.Draft().Margin, "el margen no debe cambiar")
	assert.Equal(t, "14.00", form.Draft().Price)

	form = forms.NewEntryForm(&fakeEntryAPI{}, supervisor(), fixedDefaults(), logger.Nop())
	form.SetCost("10")
	require.NoError(t, form.SetMargin("50"))
	assert.Equal(t, "15.00", form.Draft().Price, "el supervisor sí recalcula con margen 50")
}

// El match de la búsqueda siembra los campos del producto; sin match los
// campos derivados vuelven a sus valores por defecto.
func TestEntryForm_ApplyLookupSiembraYLimpia(t *testing.T) {
	form := forms.NewEntryForm(&fakeEntryAPI{}, operador(), fixedDefaults(), logger.Nop())
	p := existingProduct()

	form.ApplyLookup(lookup.Result{Barcode: p.Barcode, Existing: true, Product: p})
	draft := form.Draft()
	assert.True(t, form.IsExisting())
	assert.Equal(t, "Café Molido", draft.Name)
	assert.Equal(t, "Proveedor Sur", draft.Supplier)
	assert.Equal(t, "40", draft.Margin)
	assert.Equal(t, "14.00", draft.Price)

	form.ApplyLookup(lookup.Result{Barcode: "0000000000000", Existing: false})
	draft = form.Draft()
	assert.False(t, form.IsExisting())
	assert.Empty(t, draft.Name)
	assert.Empty(t, draft.Supplier)
	assert.Equal(t, "40", draft.Margin, "sin match el margen vuelve al valor por defecto")
}

// Producto nuevo exige barcode válido y todos los campos.
func TestEntryForm_ValidacionProductoNuevo(t *testing.T) {
	api := &fakeEntryAPI{}
	form := forms.NewEntryForm(api, operador(), fixedDefaults(), logger.Nop())

	form.SetBarcode("123") // largo inválido
	form.SetName("Algo")
	form.SetSupplier("Alguien")
	form.SetQuantity("5")
	form.SetCost("10")
	assert.ErrorIs(t, form.Submit(context.Background()), domain.ErrInvalidBarcode)

	form.SetBarcode("7891000100103")
	form.SetName("")
	assert.ErrorIs(t, form.Submit(context.Background()), domain.ErrValidationFailed)

	form.SetName("Algo")
	form.SetQuantity("cero")
	assert.ErrorIs(t, form.Submit(context.Background()), domain.ErrValidationFailed)

	form.SetQuantity("-3")
	assert.ErrorIs(t, form.Submit(context.Background()), domain.ErrValidationFailed)

	assert.Equal(t, 0, api.writes(), "la validación fallida nunca toca la red")
	assert.Equal(t, forms.StateIdle, form.State())
}

// Alta de producto nuevo: una sola escritura con stock = cantidad,
// stock mínimo 5 y precio derivado.
func TestEntryForm_AltaProductoNuevo(t *testing.T) {
	api := &fakeEntryAPI{}
	form := forms.NewEntryForm(api, operador(), fixedDefaults(), logger.Nop())

	form.SetBarcode("7891000100103")
	form.SetName("Café Molido")
	form.SetSupplier("Proveedor Sur")
	form.SetQuantity("12")
	form.SetCost("10")

	require.NoError(t, form.Submit(context.Background()))
	require.Len(t, api.created, 1)
	created := api.created[0]
	assert.Equal(t, "7891000100103", created.Barcode)
	assert.Equal(t, 12, created.Quantity)
	assert.Equal(t, 12, created.Stock, "el stock inicial es la cantidad de la entrada")
	assert.Equal(t, 5, created.MinStock)
	assert.True(t, created.Price.Equal(decimal.NewFromInt(14)), "precio derivado 10*1.40, fue %s", created.Price)

	assert.Equal(t, forms.StateSucceeded, form.State())
	draft := form.Draft()
	assert.Empty(t, draft.Barcode, "el borrador vuelve a cero tras el éxito")
	assert.Equal(t, "40", draft.Margin)
	assert.False(t, form.IsExisting())
}

// Producto existente: escritura incremental contra el sub-recurso de entradas.
func TestEntryForm_EntradaProductoExistente(t *testing.T) {
	api := &fakeEntryAPI{}
	form := forms.NewEntryForm(api, operador(), fixedDefaults(), logger.Nop())
	p := existingProduct()
	form.ApplyLookup(lookup.Result{Barcode: p.Barcode, Existing: true, Product: p})
	form.SetQuantity("3")
	form.SetCost("12")

	require.NoError(t, form.Submit(context.Background()))
	require.Len(t, api.entries, 1)
	assert.Equal(t, 3, api.entries[0].Quantity)
	assert.True(t, api.entries[0].Cost.Equal(decimal.NewFromInt(12)))
	assert.Empty(t, api.created, "producto existente nunca dispara un alta")
}

// Un Submit mientras otro está en vuelo se rechaza sin duplicar la escritura.
func TestEntryForm_SubmitEnVueloNoSeDuplica(t *testing.T) {
	block := make(chan struct{})
	api := &fakeEntryAPI{block: block}
	form := forms.NewEntryForm(api, operador(), fixedDefaults(), logger.Nop())
	p := existingProduct()
	form.ApplyLookup(lookup.Result{Barcode: p.Barcode, Existing: true, Product: p})
	form.SetQuantity("3")
	form.SetCost("12")

	done := make(chan error, 1)
	go func() { done <- form.Submit(context.Background()) }()

	require.Eventually(t, func() bool { return form.State() == forms.StateSubmitting },
		time.Second, 5*time.Millisecond, "el primer Submit debe quedar en vuelo")

	err := form.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrSubmitPending, "el segundo intento se rechaza")

	close(block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, api.writes(), "exactamente una escritura debe haber llegado a la red")
}

// El fallo del backend conserva el borrador para corregir y reenviar.
func TestEntryForm_FalloConservaBorrador(t *testing.T) {
	api := &fakeEntryAPI{err: errors.New("backend caído")}
	form := forms.NewEntryForm(api, operador(), fixedDefaults(), logger.Nop())
	p := existingProduct()
	form.ApplyLookup(lookup.Result{Barcode: p.Barcode, Existing: true, Product: p})
	form.SetQuantity("3")
	form.SetCost("12")

	assert.Error(t, form.Submit(context.Background()))
	assert.Equal(t, forms.StateFailed, form.State())
	assert.Equal(t, "3", form.Draft().Quantity, "el borrador no debe perderse tras el fallo")
	assert.True(t, form.IsExisting())

	api.mu.Lock()
	api.err = nil
	api.mu.Unlock()
	require.NoError(t, form.Submit(context.Background()), "el reenvío manual debe proceder")
	assert.Equal(t, 2, api.writes())
}
