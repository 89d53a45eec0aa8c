package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	GinMode string `env:"GIN_MODE" env-default:"debug"`

	DBHost     string `env:"DB_HOST" env-default:"localhost"`
	DBPort     string `env:"DB_PORT" env-default:"5432"`
	DBUser     string `env:"DB_USER" env-default:"workbench"`
	DBPassword string `env:"DB_PASSWORD" env-default:"workbench"`
	DBName     string `env:"DB_NAME" env-default:"workbench_flow"`
	DBSSLMode  string `env:"DB_SSL_MODE" env-default:"disable"`

	// Session tokens. One deliberate lifetime for every issuing path.
	TokenSecret string        `env:"TOKEN_SECRET" env-default:"default-secret-key-change-me"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" env-default:"15h"`
	TokenIssuer string        `env:"TOKEN_ISSUER" env-default:"workbench-flow"`

	OtpTTL            time.Duration `env:"OTP_TTL" env-default:"2m"`
	OtpResendCooldown time.Duration `env:"OTP_RESEND_COOLDOWN" env-default:"30s"`

	SMTPHost    string        `env:"SMTP_HOST" env-default:"localhost"`
	SMTPPort    int           `env:"SMTP_PORT" env-default:"587"`
	SMTPUser    string        `env:"SMTP_USER" env-default:""`
	SMTPPass    string        `env:"SMTP_PASS" env-default:""`
	MailFrom    string        `env:"MAIL_FROM" env-default:"no-reply@workbench.flow"`
	MailTimeout time.Duration `env:"MAIL_TIMEOUT" env-default:"5s"`

	UploadDir string `env:"UPLOAD_DIR" env-default:"uploads"`

	ListenAddr string `env:"LISTEN_ADDR" env-default:":8080"`
}

func Load() (*Config, error) {
	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
