package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/instock-client/internal/interfaces/stub"
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

	server := stub.New(stub.Config{
		JWTSecret:     cfg.Stub.JWTSecret,
		JWTExpMinutes: cfg.Stub.JWTExpMinutes,
		JWTIssuer:     cfg.Stub.JWTIssuer,
	}, log)
	app := server.App()

	// Apagado ordenado con SIGINT/SIGTERM.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("apagando backend stub")
		_ = app.Shutdown()
	}()

	log.Info().Str("addr", cfg.Stub.Addr()).Msg("backend stub escuchando")
	if err := app.Listen(cfg.Stub.Addr()); err != nil {
		log.Fatal().Err(err).Msg("servidor HTTP")
	}
}
