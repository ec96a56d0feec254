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

// EnvPrefix prefixes every environment override, e.g. CARPRICE_SERVER_ADDRESS.
const EnvPrefix = "CARPRICE"

// Config is the application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Artifacts   ArtifactsConfig   `mapstructure:"artifacts"`
	Explanation ExplanationConfig `mapstructure:"explanation"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ArtifactsConfig points at the persisted model and explainer. Both are read
// once at startup.
type ArtifactsConfig struct {
	ModelPath     string `mapstructure:"model_path"`
	ExplainerPath string `mapstructure:"explainer_path"`
}

type ExplanationConfig struct {
	PlotHeight int `mapstructure:"plot_height"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("artifacts.model_path", "artifacts/car_price_model.json")
	v.SetDefault("artifacts.explainer_path", "artifacts/shap_explainer.json")
	v.SetDefault("explanation.plot_height", 200)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads configuration into v and decodes it. Precedence, highest first:
// flags bound to v, CARPRICE_* environment (a .env file is loaded into the
// environment first), carprice.yaml, defaults. CARPRICE_CONFIG names the
// config file when no --config flag is given.
func Load(v *viper.Viper) (*Config, error) {
	loadEnvFile()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("carprice")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/carprice")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.Artifacts.ModelPath == "" {
		return errors.New("artifacts.model_path is required")
	}
	if c.Artifacts.ExplainerPath == "" {
		return errors.New("artifacts.explainer_path is required")
	}
	if c.Server.Address == "" {
		return errors.New("server.address is required")
	}
	if c.Explanation.PlotHeight < 0 {
		return fmt.Errorf("explanation.plot_height must not be negative: %d", c.Explanation.PlotHeight)
	}
	return nil
}

func loadEnvFile() {
	path := os.Getenv(EnvPrefix + "_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	// a missing .env is normal outside development
	_ = godotenv.Load(path)
}
