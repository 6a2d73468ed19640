// Package cli implementa el front-end de terminal de InStock: login,
// pantallas de entrada/salida de stock, perfil y panel de configuración.
// Sin pretensiones de layout: prompts de línea sobre el flujo de
// formularios, que es donde vive la lógica.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jhoicas/instock-client/internal/application/lookup"
	"github.com/jhoicas/instock-client/internal/application/session"
	"github.com/jhoicas/instock-client/internal/application/users"
	"github.com/jhoicas/instock-client/internal/domain"
	"github.com/jhoicas/instock-client/internal/infrastructure/rest"
	"github.com/jhoicas/instock-client/pkg/config"
	"github.com/jhoicas/instock-client/pkg/idle"
	"github.com/jhoicas/instock-client/pkg/logger"
)

// App front-end de terminal. Todas las dependencias entran por construcción;
// no hay estado global.
type App struct {
	cfg      *config.Config
	log      *logger.Logger
	client   *rest.Client
	sessions *session.Store
	usersUC  *users.UseCase

	in  *bufio.Scanner
	out io.Writer
}

// New construye la aplicación de terminal.
func New(cfg *config.Config, log *logger.Logger, client *rest.Client, sessions *session.Store, usersUC *users.UseCase, in io.Reader, out io.Writer) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		client:   client,
		sessions: sessions,
		usersUC:  usersUC,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run ciclo principal: login → menú → pantallas, hasta EOF o salida.
func (a *App) Run(ctx context.Context) error {
	// Sesión persistida: validar el token contra el backend antes de usarla.
	if a.sessions.Snapshot().Active() {
		if user, err := a.client.CurrentUser(ctx); err == nil {
			a.sessions.SetUser(user)
		}
	}

	for {
		if !a.sessions.Snapshot().Active() {
			if err := a.loginScreen(ctx); err != nil {
				return err
			}
		}

		watchdog := idle.NewWatchdog(a.cfg.UI.IdleTimeout(), func() {
			a.printf("\nSesión cerrada por inactividad.\n")
			a.sessions.Clear()
		})
		watchdog.Start()
		err := a.menu(ctx, watchdog)
		watchdog.Stop()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if !a.sessions.Snapshot().Active() {
			continue // re-login tras logout/expiración
		}
		return nil
	}
}

// loginScreen pide credenciales hasta autenticar o EOF.
func (a *App) loginScreen(ctx context.Context) error {
	for {
		matricula, err := a.prompt("Matrícula: ")
		if err != nil {
			return err
		}
		senha, err := a.prompt("Contraseña: ")
		if err != nil {
			return err
		}
		token, err := a.client.Login(ctx, matricula, senha)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidCredentials) {
				a.printf("Credenciales inválidas.\n")
				continue
			}
			a.printf("Error de red: %v\n", err)
			continue
		}
		a.sessions.SetToken(token)
		user, err := a.client.CurrentUser(ctx)
		if err != nil {
			a.sessions.Clear()
			a.printf("No se pudo cargar el usuario: %v\n", err)
			continue
		}
		a.sessions.SetUser(user)
		a.printf("Bienvenido/a %s (%s). Último login: %s\n",
			user.Name, user.Nivel, user.LastLogin.Format("02/01/2006 15:04"))
		return nil
	}
}

// menu navegación principal. Cada lectura de línea cuenta como actividad
// para el watchdog; si la sesión cae (idle o 401) vuelve al login.
func (a *App) menu(ctx context.Context, watchdog *idle.Watchdog) error {
	for {
		if !a.sessions.Snapshot().Active() {
			return nil
		}
		user := a.sessions.User()
		a.printf("\n[1] Entrada de stock  [2] Salida de stock  [3] Perfil")
		if domain.CanAccessSettings(user) {
			a.printf("  [4] Configuración")
		}
		a.printf("  [0] Salir\n")

		choice, err := a.prompt("> ")
		if err != nil {
			return err
		}
		watchdog.Activity()

		switch choice {
		case "1":
			err = a.entryScreen(ctx, watchdog)
		case "2":
			err = a.exitScreen(ctx, watchdog)
		case "3":
			err = a.profileScreen(ctx, watchdog)
		case "4":
			if !domain.CanAccessSettings(user) {
				a.printf("Acceso denegado: requiere nivel Supervisor.\n")
				continue
			}
			err = a.settingsScreen(ctx, watchdog)
		case "0":
			a.sessions.Clear()
			a.printf("Sesión cerrada.\n")
			return nil
		default:
			continue
		}
		if err != nil {
			return err
		}
	}
}

// runLookup alimenta el controlador de búsqueda con el barcode tipeado y
// espera el resultado aplicable (o un timeout corto de cortesía).
func (a *App) runLookup(barcode string, apply func(lookup.Result)) {
	done := make(chan struct{}, 1)
	ctl := lookup.NewController(a.cfg.UI.Debounce(), a.client, func(r lookup.Result) {
		apply(r)
		select {
		case done <- struct{}{}:
		default:
		}
	}, a.log)
	defer ctl.Close()

	ctl.Input(barcode)
	select {
	case <-done:
	case <-time.After(a.cfg.UI.Debounce() + a.cfg.API.Timeout()):
	}
}

func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(a.in.Text()), nil
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}
