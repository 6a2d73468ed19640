package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/jhoicas/instock-client/internal/application/dto"
	"github.com/jhoicas/instock-client/internal/application/forms"
	"github.com/jhoicas/instock-client/internal/application/lookup"
	"github.com/jhoicas/instock-client/internal/domain"
	"github.com/jhoicas/instock-client/pkg/idle"
)

// entryScreen cadastro/actualización de producto (pantalla de entradas).
func (a *App) entryScreen(ctx context.Context, watchdog *idle.Watchdog) error {
	form := forms.NewEntryForm(a.client, a.sessions, a.defaults(), a.log)

	barcode, err := a.prompt("Código de barras (13 dígitos): ")
	if err != nil {
		return err
	}
	watchdog.Activity()
	form.SetBarcode(barcode)
	a.runLookup(barcode, form.ApplyLookup)

	if form.IsExisting() {
		draft := form.Draft()
		a.printf("Producto existente: %s (%s) — margen %s%%, precio %s\n",
			draft.Name, draft.Supplier, draft.Margin, draft.Price)
	} else {
		a.printf("Producto nuevo.\n")
		if v, err := a.prompt("Nombre: "); err != nil {
			return err
		} else {
			form.SetName(v)
		}
		if v, err := a.prompt("Proveedor: "); err != nil {
			return err
		} else {
			form.SetSupplier(v)
		}
		watchdog.Activity()
	}

	if v, err := a.prompt("Cantidad: "); err != nil {
		return err
	} else {
		form.SetQuantity(v)
	}
	if v, err := a.prompt("Costo: "); err != nil {
		return err
	} else {
		form.SetCost(v)
	}
	watchdog.Activity()

	if domain.CanEditMargin(a.sessions.User()) {
		v, err := a.prompt("Margen % [" + form.Draft().Margin + "]: ")
		if err != nil {
			return err
		}
		if v != "" {
			if err := form.SetMargin(v); err != nil {
				a.printf("Margen: %v\n", err)
			}
		}
	}
	a.printf("Precio de venta derivado: %s\n", form.Draft().Price)

	wasExisting := form.IsExisting()
	if err := form.Submit(ctx); err != nil {
		a.reportSubmitError(err)
		return nil
	}
	if wasExisting {
		a.printf("Entrada de stock registrada con éxito.\n")
	} else {
		a.printf("Producto registrado con éxito.\n")
	}
	return nil
}

// exitScreen salida de stock.
func (a *App) exitScreen(ctx context.Context, watchdog *idle.Watchdog) error {
	form := forms.NewExitForm(a.client, a.defaults(), a.log)

	barcode, err := a.prompt("Código de barras (13 dígitos): ")
	if err != nil {
		return err
	}
	watchdog.Activity()
	form.SetBarcode(barcode)
	a.runLookup(barcode, form.ApplyLookup)

	if !form.IsExisting() {
		a.printf("Producto no encontrado.\n")
		return nil
	}
	draft := form.Draft()
	a.printf("Producto: %s — saldo actual %s\n", draft.Name, draft.Balance)

	if v, err := a.prompt("Cantidad a retirar: "); err != nil {
		return err
	} else {
		form.SetQuantity(v)
	}
	watchdog.Activity()

	if err := form.Submit(ctx); err != nil {
		a.reportSubmitError(err)
		return nil
	}
	a.printf("Salida de stock registrada con éxito.\n")
	return nil
}

// profileScreen actualización de nombre y cambio de contraseña propios.
func (a *App) profileScreen(ctx context.Context, watchdog *idle.Watchdog) error {
	user := a.sessions.User()
	if user == nil {
		return nil
	}
	a.printf("Perfil: %s — matrícula %s, nivel %s\n", user.Name, user.Matricula, user.Nivel)
	choice, err := a.prompt("[1] Cambiar nombre  [2] Cambiar contraseña  [0] Volver\n> ")
	if err != nil {
		return err
	}
	watchdog.Activity()

	switch choice {
	case "1":
		nome, err := a.prompt("Nuevo nombre: ")
		if err != nil {
			return err
		}
		if err := a.usersUC.UpdateProfile(ctx, nome); err != nil {
			a.reportSubmitError(err)
			return nil
		}
		if refreshed, err := a.client.CurrentUser(ctx); err == nil {
			a.sessions.SetUser(refreshed)
		}
		a.printf("Nombre actualizado con éxito.\n")
	case "2":
		actual, err := a.prompt("Contraseña actual: ")
		if err != nil {
			return err
		}
		nueva, err := a.prompt("Nueva contraseña: ")
		if err != nil {
			return err
		}
		confirm, err := a.prompt("Confirmar nueva contraseña: ")
		if err != nil {
			return err
		}
		if err := a.usersUC.ChangePassword(ctx, actual, nueva, confirm); err != nil {
			a.reportSubmitError(err)
			return nil
		}
		a.printf("Contraseña actualizada con éxito.\n")
	}
	return nil
}

// settingsScreen panel de configuración (solo Supervisor): edición de
// producto y administración de usuarios.
func (a *App) settingsScreen(ctx context.Context, watchdog *idle.Watchdog) error {
	choice, err := a.prompt("[1] Editar producto  [2] Usuarios  [0] Volver\n> ")
	if err != nil {
		return err
	}
	watchdog.Activity()
	switch choice {
	case "1":
		return a.editProductScreen(ctx, watchdog)
	case "2":
		return a.userAdminScreen(ctx, watchdog)
	}
	return nil
}

func (a *App) editProductScreen(ctx context.Context, watchdog *idle.Watchdog) error {
	form := forms.NewEditForm(a.client, a.sessions, a.defaults(), a.log)

	barcode, err := a.prompt("Código de barras del producto: ")
	if err != nil {
		return err
	}
	watchdog.Activity()

	var found bool
	a.runLookup(barcode, func(r lookup.Result) {
		if r.Existing {
			form.Load(r.Product)
			found = true
		}
	})
	if !found {
		a.printf("Producto no encontrado.\n")
		return nil
	}
	draft := form.Draft()
	a.printf("Editando: %s — costo %s, margen %s%%, precio %s, stock mínimo %s\n",
		draft.Name, draft.Cost, draft.Margin, draft.Price, draft.MinStock)

	if v, err := a.prompt("Nombre [" + draft.Name + "]: "); err != nil {
		return err
	} else if v != "" {
		form.SetName(v)
	}
	if v, err := a.prompt("Margen % [" + draft.Margin + "]: "); err != nil {
		return err
	} else if v != "" {
		if err := form.SetMargin(v); err != nil {
			a.printf("Margen: %v\n", err)
		}
	}
	if v, err := a.prompt("Stock mínimo [" + draft.MinStock + "]: "); err != nil {
		return err
	} else if v != "" {
		form.SetMinStock(v)
	}
	watchdog.Activity()
	a.printf("Precio recalculado: %s\n", form.Draft().Price)

	if err := form.Submit(ctx); err != nil {
		a.reportSubmitError(err)
		return nil
	}
	a.printf("Producto actualizado con éxito.\n")
	return nil
}

func (a *App) userAdminScreen(ctx context.Context, watchdog *idle.Watchdog) error {
	list, err := a.usersUC.List(ctx)
	if err != nil {
		a.reportSubmitError(err)
		return nil
	}
	for i, u := range list {
		a.printf("%d. %s — matrícula %s, nivel %s\n", i+1, u.Name, u.Matricula, u.Nivel)
	}
	choice, err := a.prompt("[1] Crear  [2] Editar  [3] Eliminar  [4] Resetear contraseña  [0] Volver\n> ")
	if err != nil {
		return err
	}
	watchdog.Activity()

	pick := func() (string, error) {
		v, err := a.prompt("Número de usuario: ")
		if err != nil {
			return "", err
		}
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 1 || n > len(list) {
			return "", nil
		}
		return list[n-1].ID, nil
	}

	switch choice {
	case "1":
		nome, err := a.prompt("Nombre: ")
		if err != nil {
			return err
		}
		matricula, err := a.prompt("Matrícula (numérica): ")
		if err != nil {
			return err
		}
		senha, err := a.prompt("Contraseña: ")
		if err != nil {
			return err
		}
		nivel, err := a.prompt("Nivel (Supervisor/Usuário) [Usuário]: ")
		if err != nil {
			return err
		}
		if err := a.usersUC.Create(ctx, nome, matricula, senha, nivel); err != nil {
			a.reportSubmitError(err)
			return nil
		}
		a.printf("Usuario creado con éxito.\n")
	case "2":
		id, err := pick()
		if err != nil {
			return err
		}
		if id == "" {
			return nil
		}
		nome, err := a.prompt("Nuevo nombre (vacío = sin cambio): ")
		if err != nil {
			return err
		}
		nivel, err := a.prompt("Nuevo nivel (vacío = sin cambio): ")
		if err != nil {
			return err
		}
		if err := a.usersUC.Update(ctx, id, dto.UpdateUserRequest{Nome: nome, Nivel: nivel}); err != nil {
			a.reportSubmitError(err)
			return nil
		}
		a.printf("Usuario actualizado con éxito.\n")
	case "3":
		id, err := pick()
		if err != nil {
			return err
		}
		if id == "" {
			return nil
		}
		if err := a.usersUC.Delete(ctx, id); err != nil {
			a.reportSubmitError(err)
			return nil
		}
		a.printf("Usuario eliminado con éxito.\n")
	case "4":
		id, err := pick()
		if err != nil {
			return err
		}
		if id == "" {
			return nil
		}
		if err := a.usersUC.ResetPassword(ctx, id); err != nil {
			a.reportSubmitError(err)
			return nil
		}
		a.printf("Contraseña reseteada al valor por defecto.\n")
	}
	return nil
}

// defaults valores por defecto de formularios desde la configuración.
func (a *App) defaults() forms.Defaults {
	return forms.Defaults{Margin: a.cfg.UI.DefaultMargin}
}

// reportSubmitError traduce el error al mensaje de pantalla. La sesión
// expirada ya fue limpiada por el hook del cliente REST; acá solo se avisa.
func (a *App) reportSubmitError(err error) {
	switch {
	case errors.Is(err, domain.ErrAuthExpired):
		a.printf("Sesión expirada. Por favor ingrese de nuevo.\n")
	case errors.Is(err, domain.ErrInsufficientStock):
		a.printf("Stock insuficiente para la salida solicitada.\n")
	case errors.Is(err, domain.ErrInvalidBarcode):
		a.printf("El código de barras debe tener exactamente 13 dígitos.\n")
	case errors.Is(err, domain.ErrValidationFailed):
		a.printf("Complete todos los campos obligatorios.\n")
	case errors.Is(err, domain.ErrForbidden):
		a.printf("Acceso denegado.\n")
	case errors.Is(err, domain.ErrSubmitPending):
		a.printf("Ya hay un envío en curso.\n")
	default:
		a.printf("Error al guardar. Verifique los datos e intente de nuevo. (%v)\n", err)
	}
}
