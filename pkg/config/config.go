package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del cliente InStock (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	API     APIConfig
	UI      UIConfig
	Session SessionConfig
	Stub    StubConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// APIConfig configuración del backend REST de InStock.
type APIConfig struct {
	BaseURL        string // ej. http://localhost:3001
	TimeoutSeconds int
}

// Timeout devuelve el timeout de red como time.Duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// UIConfig parámetros del flujo de pantallas: debounce de búsqueda, inactividad y margen por defecto.
type UIConfig struct {
	DebounceMS         int
	IdleTimeoutMinutes int
	DefaultMargin      string // porcentaje, ej. "40"
}

// Debounce devuelve la ventana de silencio antes de disparar la búsqueda.
func (c UIConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// IdleTimeout devuelve el límite de inactividad para cierre de sesión automático.
func (c UIConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMinutes) * time.Minute
}

// SessionConfig persistencia local del token y snapshot de usuario.
type SessionConfig struct {
	File string // ruta del archivo; vacío = ~/.instock/session.json
}

// StubConfig configuración del backend stub de desarrollo (cmd/stubapi).
type StubConfig struct {
	Host          string
	Port          int
	JWTSecret     string
	JWTExpMinutes int
	JWTIssuer     string
}

// Addr devuelve la dirección de escucha del stub (host:port).
func (c StubConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, API_BASE_URL, UI_DEBOUNCE_MS, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "instock-client"),
		},
		API: APIConfig{
			BaseURL:        getString(v, "API_BASE_URL", "http://localhost:3001"),
			TimeoutSeconds: getInt(v, "API_TIMEOUT_SECONDS", 15),
		},
		UI: UIConfig{
			DebounceMS:         getInt(v, "UI_DEBOUNCE_MS", 300),
			IdleTimeoutMinutes: getInt(v, "UI_IDLE_TIMEOUT_MINUTES", 10),
			DefaultMargin:      getString(v, "UI_DEFAULT_MARGIN", "40"),
		},
		Session: SessionConfig{
			File: getString(v, "SESSION_FILE", ""),
		},
		Stub: StubConfig{
			Host:          getString(v, "STUB_HTTP_HOST", "0.0.0.0"),
			Port:          getInt(v, "STUB_HTTP_PORT", 3001),
			JWTSecret:     getString(v, "STUB_JWT_SECRET", "instock-dev-secret"),
			JWTExpMinutes: getInt(v, "STUB_JWT_EXPIRATION_MINUTES", 60),
			JWTIssuer:     getString(v, "STUB_JWT_ISSUER", "instock-stub"),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
