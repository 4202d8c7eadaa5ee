// config предоставляет структуру конфигурации explore-service
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env       string          `yaml:"env"     env:"ENV" env-default:"local"`
	HTTP      HTTPConfig      `yaml:"http"`
	Redis     RedisConfig     `yaml:"redis"`
	Upstreams UpstreamsConfig `yaml:"upstreams"`
	Session   SessionConfig   `yaml:"session"`
	Search    SearchConfig    `yaml:"search"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
	Timeouts  TimeoutConfig   `yaml:"timeouts"`
}

// HTTPConfig — сетевые настройки HTTP-сервера.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50083"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// RedisConfig — настройки подключения к Redis, где живёт
// сохранённое состояние сессий.
type RedisConfig struct {
	URL string `yaml:"url" env:"REDIS_URL" env-required:"true"`
}

// UpstreamsConfig — адреса апстрим-сервисов.
type UpstreamsConfig struct {
	CampaignsURL string `yaml:"campaigns_url" env:"CAMPAIGNS_URL" env-required:"true"`
	FavoritesURL string `yaml:"favorites_url" env:"FAVORITES_URL" env-required:"true"`
}

// SessionConfig — параметры жизненного цикла сессий.
type SessionConfig struct {
	// TTL записи состояния в Redis; обновляется при каждом сохранении.
	TTL time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"720h"`
}

// SearchConfig — параметры debounce поисковой строки.
type SearchConfig struct {
	DebounceDelay time.Duration `yaml:"debounce_delay" env:"SEARCH_DEBOUNCE_DELAY" env-default:"300ms"`
}

// DefaultsConfig — дефолты состояния новой сессии.
type DefaultsConfig struct {
	PageSize int    `yaml:"page_size" env:"DEFAULT_PAGE_SIZE" env-default:"9"`
	ViewMode string `yaml:"view_mode" env:"DEFAULT_VIEW_MODE" env-default:"grid"`
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	Service  time.Duration `yaml:"service"  env:"SERVICE_TIMEOUT" env-default:"5s"`
	Upstream time.Duration `yaml:"upstream" env:"UPSTREAM_TIMEOUT" env-default:"3s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", p)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		c, err := tryRead(path)
		if err != nil {
			return nil, err
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		c, err := tryRead(envPath)
		if err != nil {
			return nil, err
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if c.Redis.URL == "" {
		return fmt.Errorf("redis.url is required")
	}
	if c.Upstreams.CampaignsURL == "" {
		return fmt.Errorf("upstreams.campaigns_url is required")
	}
	if c.Upstreams.FavoritesURL == "" {
		return fmt.Errorf("upstreams.favorites_url is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be > 0")
	}
	if c.Search.DebounceDelay <= 0 {
		return fmt.Errorf("search.debounce_delay must be > 0")
	}
	if c.Defaults.PageSize <= 0 {
		return fmt.Errorf("defaults.page_size must be > 0")
	}
	if c.Defaults.ViewMode != "grid" && c.Defaults.ViewMode != "map" {
		return fmt.Errorf("defaults.view_mode must be grid or map")
	}
	if c.Timeouts.Service <= 0 {
		return fmt.Errorf("timeouts.service must be > 0")
	}
	if c.Timeouts.Upstream <= 0 {
		return fmt.Errorf("timeouts.upstream must be > 0")
	}
	return nil
}
