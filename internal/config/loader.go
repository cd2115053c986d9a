package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the bot configuration: the YAML file plus environment
// variables for secrets.
type Config struct {
	// DatabasePath is the SQLite database location.
	DatabasePath string `yaml:"db_path"`

	// Admins seeds the persisted admin set at startup.
	Admins []int64 `yaml:"admins"`

	Mail      Mail      `yaml:"mail"`
	Bootstrap Bootstrap `yaml:"super_admin_add"`

	// CodeTTL bounds the registration-code validity window. The file carries
	// whole seconds in CodeTTLSeconds; this field holds the resolved value.
	CodeTTL time.Duration `yaml:"-"`

	// CodeTTLSeconds is the file-facing form of CodeTTL. Zero means default.
	CodeTTLSeconds int `yaml:"code_ttl_seconds"`

	// TelegramToken comes from the COLLEGEBOT_TOKEN environment variable.
	TelegramToken string `yaml:"-"`
}

// Mail holds SMTP delivery settings. Credentials come from the environment
// (COLLEGEBOT_MAIL_LOGIN, COLLEGEBOT_MAIL_PASSWORD), never from the file.
// An empty host selects the console mailer.
type Mail struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	From     string `yaml:"from"`
	Username string `yaml:"-"`
	Password string `yaml:"-"`
}

// Bootstrap controls the one-time admin elevation flow.
type Bootstrap struct {
	// Function is "on" to enable the flow, anything else disables it. The
	// string form mirrors the config file the operators already maintain.
	Function string `yaml:"function"`

	// CodeHash is the argon2id hash of the shared bootstrap secret.
	CodeHash string `yaml:"code_hash"`
}

// Enabled reports whether the elevation flow is switched on.
func (b Bootstrap) Enabled() bool {
	return strings.EqualFold(strings.TrimSpace(b.Function), "on")
}

// Loader reads configuration from a YAML file. Load validates the full
// configuration once at startup; ReadBootstrap re-reads the file on every call
// so operators can toggle the elevation flow without restarting the bot.
type Loader struct {
	path string
}

// NewLoader binds a loader to the configuration file path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load parses and validates the configuration.
//
// Defaults are applied for optional fields; missing required values are
// accumulated and reported together.
func (l *Loader) Load() (Config, error) {
	cfg := Config{
		DatabasePath: "schedule.db",
		CodeTTL:      180 * time.Second,
		Mail:         Mail{Port: 587},
	}

	raw, err := os.ReadFile(l.path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", l.path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", l.path, err)
	}

	cfg.TelegramToken = strings.TrimSpace(os.Getenv("COLLEGEBOT_TOKEN"))
	cfg.Mail.Username = strings.TrimSpace(os.Getenv("COLLEGEBOT_MAIL_LOGIN"))
	cfg.Mail.Password = os.Getenv("COLLEGEBOT_MAIL_PASSWORD")

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if cfg.TelegramToken == "" {
		missing = append(missing, "COLLEGEBOT_TOKEN")
	}
	if strings.TrimSpace(cfg.DatabasePath) == "" {
		invalid = append(invalid, "db_path")
	}
	switch {
	case cfg.CodeTTLSeconds < 0:
		invalid = append(invalid, "code_ttl_seconds")
	case cfg.CodeTTLSeconds > 0:
		cfg.CodeTTL = time.Duration(cfg.CodeTTLSeconds) * time.Second
	}
	if cfg.Mail.Host != "" {
		if cfg.Mail.Port <= 0 || cfg.Mail.Port > 65535 {
			invalid = append(invalid, "mail.port")
		}
		if strings.TrimSpace(cfg.Mail.From) == "" {
			invalid = append(invalid, "mail.from")
		}
	}
	if cfg.Bootstrap.Enabled() && strings.TrimSpace(cfg.Bootstrap.CodeHash) == "" {
		invalid = append(invalid, "super_admin_add.code_hash")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("не заданы обязательные переменные окружения: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("недопустимые значения конфигурации: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// ReadBootstrap re-reads only the elevation settings from disk. It is called
// on every elevation attempt; the file is the source of truth, never a cache.
func (l *Loader) ReadBootstrap() (Bootstrap, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return Bootstrap{}, fmt.Errorf("config: read %s: %w", l.path, err)
	}

	var cfg struct {
		Bootstrap Bootstrap `yaml:"super_admin_add"`
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Bootstrap{}, fmt.Errorf("config: parse %s: %w", l.path, err)
	}
	return cfg.Bootstrap, nil
}
