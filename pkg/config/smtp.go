package config

import (
	"fmt"
	"strconv"
	"strings"
)

// SMTPConfig is the validated set of credentials needed for live sends
type SMTPConfig struct {
	Address  string
	Password string
	Server   string
	Port     int
}

// ConfigError reports missing or invalid configuration
type ConfigError struct {
	Missing []string
	Reason  string
}

func (e *ConfigError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("Missing env vars: %s. Add them to .env", strings.Join(e.Missing, ", "))
	}
	return e.Reason
}

// SMTP validates the four required transport values
func (m MailConfig) SMTP() (SMTPConfig, error) {
	var missing []string
	for _, v := range []struct {
		name  string
		value string
	}{
		{"EMAIL_ADDRESS", m.Address},
		{"EMAIL_PASSWORD", m.Password},
		{"SMTP_SERVER", m.Server},
		{"SMTP_PORT", m.Port},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return SMTPConfig{}, &ConfigError{Missing: missing}
	}

	port, err := strconv.Atoi(strings.TrimSpace(m.Port))
	if err != nil {
		return SMTPConfig{}, &ConfigError{Reason: "SMTP_PORT must be a number"}
	}

	return SMTPConfig{
		Address:  m.Address,
		Password: m.Password,
		Server:   m.Server,
		Port:     port,
	}, nil
}
