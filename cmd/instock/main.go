package main

import (
	"context"
	"os"

	"github.com/jhoicas/instock-client/internal/application/session"
	"github.com/jhoicas/instock-client/internal/application/users"
	"github.com/jhoicas/instock-client/internal/infrastructure/localstore"
	"github.com/jhoicas/instock-client/internal/infrastructure/rest"
	"github.com/jhoicas/instock-client/internal/interfaces/cli"
	"github.com/jhoicas/instock-client/pkg/config"
	"github.com/jhoicas/instock-client/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.API.BaseURL).
		Msg("iniciando cliente InStock")

	storage, err := localstore.New(cfg.Session.File)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento local de sesión")
	}
	sessions := session.NewStore(storage, log)

	client := rest.NewClient(cfg.API.BaseURL, cfg.API.Timeout(), sessions, log)
	// 401 en cualquier llamada autenticada → limpiar sesión en un solo lugar.
	client.OnAuthExpired(sessions.Clear)

	usersUC := users.NewUseCase(client, sessions, log)

	app := cli.New(cfg, log, client, sessions, usersUC, os.Stdin, os.Stdout)
	if err := app.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("el cliente terminó con error")
	}
}
