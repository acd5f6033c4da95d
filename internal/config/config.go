package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort       string   `env:"HTTP_PORT" envDefault:"8080"`
	BackendBaseURL string   `env:"BACKEND_BASE_URL,required"`
	BackendWSURL   string   `env:"BACKEND_WS_URL"`
	TokenFile      string   `env:"TOKEN_FILE" envDefault:".portfolio-session"`
	RedisAddr      string   `env:"REDIS_ADDR"`
	RedisPassword  string   `env:"REDIS_PASSWORD"`
	RedisDB        int      `env:"REDIS_DB" envDefault:"0"`
	CORSOrigins    []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	ReloadCron     string   `env:"RELOAD_CRON" envDefault:"0 */10 * * * *"`

	// Perfil de presentación; el skin elige el tono del portafolio.
	Skin          string `env:"PORTFOLIO_SKIN" envDefault:"developer"`
	OwnerName     string `env:"OWNER_NAME" envDefault:"Portfolio Owner"`
	OwnerHeadline string `env:"OWNER_HEADLINE"`
	OwnerAbout    string `env:"OWNER_ABOUT"`
	OwnerEmail    string `env:"OWNER_EMAIL"`
	OwnerLocation string `env:"OWNER_LOCATION"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
