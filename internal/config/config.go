package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	BackendPostgres = "postgres"
	BackendJSON     = "json"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token           string
		SuperAdminID    int64  `mapstructure:"super_admin_id"`
		RequiredChannel string `mapstructure:"required_channel"`
		Support         string
	} `mapstructure:"telegram"`

	Storage struct {
		Backend string
		DataDir string `mapstructure:"data_dir"`
	} `mapstructure:"storage"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Limits struct {
		MinTopup    int64 `mapstructure:"min_topup"`
		MinWithdraw int64 `mapstructure:"min_withdraw"`
	} `mapstructure:"limits"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "Asia/Damascus")
	v.SetDefault("storage.backend", BackendJSON)
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("limits.min_topup", 5000)
	v.SetDefault("limits.min_withdraw", 10000)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("metrics.enabled", true)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, c.validate()
}

func (c Config) validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("config: telegram.token is required")
	}
	if c.Telegram.SuperAdminID == 0 {
		return fmt.Errorf("config: telegram.super_admin_id is required")
	}
	switch c.Storage.Backend {
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("config: postgres.dsn is required for the postgres backend")
		}
	case BackendJSON:
	default:
		return fmt.Errorf("config: unknown storage.backend %q", c.Storage.Backend)
	}
	return nil
}
