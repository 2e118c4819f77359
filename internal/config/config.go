package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultEnvFile = ".env"

var (
	dbUserEmptyError       = errors.New("DB User is Empty")
	dbNameEmptyError       = errors.New("DB Name is Empty")
	envLoadError           = errors.New(".env load Error")
	slackTokenEmptyError   = errors.New("slack.bot_token is required")
	slackChannelEmptyError = errors.New("slack.channel is required")
	githubTokenEmptyError  = errors.New("github.access_token is required")
	appUrlEmptyError       = errors.New("app.url is required")
)

type AppConfig struct {
	Env             string        `mapstructure:"env"`
	Port            string        `mapstructure:"port"`
	Url             string        `mapstructure:"url"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           string `mapstructure:"port"`
	Name           string `mapstructure:"name"`
	Password       string `mapstructure:"password"`
	User           string `mapstructure:"user"`
	URL            string `mapstructure:"url"`
	MigrationsPath string `mapstructure:"migrations_path"`
	MaxConns       int32  `mapstructure:"max_conns"`
}

type SlackConfig struct {
	BotToken     string        `mapstructure:"bot_token"`
	Channel      string        `mapstructure:"channel"`
	ClientId     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	RedirectUrl  string        `mapstructure:"redirect_url"`
	ApiUrl       string        `mapstructure:"api_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type GithubConfig struct {
	AccessToken   string        `mapstructure:"access_token"`
	ClientId      string        `mapstructure:"client_id"`
	ClientSecret  string        `mapstructure:"client_secret"`
	WebhookSecret string        `mapstructure:"webhook_secret"`
	ApiUrl        string        `mapstructure:"api_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type LanguagesConfig struct {
	// Путь к languages.yml в формате linguist, пустой - встроенная копия
	Path string `mapstructure:"path"`
}

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Slack     SlackConfig     `mapstructure:"slack"`
	Github    GithubConfig    `mapstructure:"github"`
	Languages LanguagesConfig `mapstructure:"languages"`
}

// LoadConfig читает настройки из окружения с наложением envFile.
// Отсутствие .env по умолчанию игнорируется, явно указанного файла - нет
func LoadConfig(envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := makeDbUrl(c); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate отклоняет конфигурацию, с которой сервис не запустится
func (c *Config) Validate() error {
	if c.Slack.BotToken == "" {
		return slackTokenEmptyError
	}
	if c.Slack.Channel == "" {
		return slackChannelEmptyError
	}
	if c.Github.AccessToken == "" {
		return githubTokenEmptyError
	}
	if c.App.Url == "" {
		return appUrlEmptyError
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.App.Port
}

var keys = []string{
	"app.env",
	"app.port",
	"app.url",
	"app.request_timeout",
	"app.shutdown_timeout",
	"database.host",
	"database.port",
	"database.name",
	"database.password",
	"database.user",
	"database.url",
	"database.migrations_path",
	"database.max_conns",
	"slack.bot_token",
	"slack.channel",
	"slack.client_id",
	"slack.client_secret",
	"slack.redirect_url",
	"slack.api_url",
	"slack.timeout",
	"github.access_token",
	"github.client_id",
	"github.client_secret",
	"github.webhook_secret",
	"github.api_url",
	"github.timeout",
	"languages.path",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.url", "http://localhost:8080")
	v.SetDefault("app.request_timeout", 10*time.Second)
	v.SetDefault("app.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.migrations_path", "file://migrations")
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("slack.timeout", 5*time.Second)

	v.SetDefault("github.api_url", "https://api.github.com/")
	v.SetDefault("github.timeout", 5*time.Second)
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	envMap, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %v", envLoadError, err)
	}

	// реальное окружение важнее файла
	for k, val := range envMap {
		if _, exists := os.LookupEnv(k); !exists {
			_ = os.Setenv(k, val)
		}
	}
	return nil
}

func makeDbUrl(cfg *Config) error {
	if cfg.Database.URL == "" {
		if cfg.Database.User == "" {
			return dbUserEmptyError
		}
		if cfg.Database.Name == "" {
			return dbNameEmptyError
		}
		cfg.Database.URL = fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.Name,
		)
	}
	return nil
}
