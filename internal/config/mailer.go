package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// MailerConfig is read only by cmd/mailer, which consumes the email queue and
// delivers over SMTP.
type MailerConfig struct {
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	Rabbit   RabbitConfig
	SMTP     SMTPConfig
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST" env-required:"true"`
	Port     int    `env:"SMTP_PORT" env-default:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"EMAIL_FROM" env-required:"true"`
}

func ReadMailer() (MailerConfig, error) {
	var cfg MailerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return MailerConfig{}, fmt.Errorf("mailer config: %w", err)
	}
	return cfg, nil
}
