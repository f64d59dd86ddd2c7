package core

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env          string `mapstructure:"-"`
		Debug        bool   `mapstructure:"debug"`
		AppName      string `mapstructure:"appName"`
		Build        string `mapstructure:"build"`
		Locale       string `mapstructure:"locale"`
		RollbarToken string `mapstructure:"rollbarToken"`

		Database DatabaseConfig `mapstructure:"database"`
		Server   ServerConfig   `mapstructure:"server"`
	}

	DatabaseConfig struct {
		Engine     string `mapstructure:"engine"` // sqlite (default), postgres, memory
		Path       string `mapstructure:"path"`   // sqlite only
		Host       string `mapstructure:"host"`
		Port       string `mapstructure:"port"`
		User       string `mapstructure:"user"`
		Password   string `mapstructure:"password"`
		Name       string `mapstructure:"name"`
		DisableTLS bool   `mapstructure:"disableTLS"`
	}

	ServerConfig struct {
		Host            string        `mapstructure:"host"`
		ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	}
)

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, dc.Port)
}

// NewConfig loads the configuration: defaults, then `config/.env.<env>` (if present),
// then environment variables prefixed with the env name (eg. DEV_DATABASE_PATH).
func NewConfig() (*Config, error) {
	return loadConfig(".")
}

func loadConfig(root string) (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Notenbuch")
	v.SetDefault("build", "develop")
	v.SetDefault("locale", "en")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("database.engine", "sqlite")
	v.SetDefault("database.path", "modules.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "modules")
	v.SetDefault("database.disableTLS", false)
	v.SetDefault("server.host", ":8000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("debug", false)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(root, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	conf.Env = env
	conf.Locale = CleanString(conf.Locale, true /* lower */)
	conf.Database.Engine = CleanString(conf.Database.Engine, true /* lower */)
	return conf, nil
}
