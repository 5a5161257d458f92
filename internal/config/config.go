package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"pv_dashboard/internal/aggregate"
)

type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Exporter  ExporterConfig  `mapstructure:"exporter"`
	Split     SplitConfig     `mapstructure:"split"`
	Shares    SharesConfig    `mapstructure:"shares"`
	Gauge     GaugeConfig     `mapstructure:"gauge"`
	Cost      CostConfig      `mapstructure:"cost"`
}

type DataConfig struct {
	Path     string        `mapstructure:"path"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Strict   bool          `mapstructure:"strict"`
}

type DashboardConfig struct {
	Addr            string        `mapstructure:"addr"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	StaticDir       string        `mapstructure:"static_dir"`
}

type ExporterConfig struct {
	Addr           string        `mapstructure:"addr"`
	UpdateInterval time.Duration `mapstructure:"update_interval"`
}

type SplitConfig struct {
	Direct  float64 `mapstructure:"direct"`
	Battery float64 `mapstructure:"battery"`
	Grid    float64 `mapstructure:"grid"`
}

type SharesConfig struct {
	Export  float64 `mapstructure:"export"`
	SelfUse float64 `mapstructure:"self_use"`
}

type GaugeConfig struct {
	MaxPowerKW float64 `mapstructure:"max_power_kw"`
}

type CostConfig struct {
	PerKWhUSD float64 `mapstructure:"per_kwh_usd"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.SplitRatios().Validate(); err != nil {
		return nil, fmt.Errorf("invalid split config: %w", err)
	}
	if err := config.SharesValue().Validate(); err != nil {
		return nil, fmt.Errorf("invalid shares config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.path", "data/pv_data.csv")
	v.SetDefault("data.cache_ttl", "60s")
	v.SetDefault("data.strict", false)
	v.SetDefault("dashboard.addr", ":8080")
	v.SetDefault("dashboard.refresh_interval", "30s")
	v.SetDefault("dashboard.static_dir", "web/static")
	v.SetDefault("exporter.addr", ":8000")
	v.SetDefault("exporter.update_interval", "30s")
	v.SetDefault("split.direct", 0.48)
	v.SetDefault("split.battery", 0.35)
	v.SetDefault("split.grid", 0.17)
	v.SetDefault("shares.export", 0.40)
	v.SetDefault("shares.self_use", 0.60)
	v.SetDefault("gauge.max_power_kw", 5.0)
	v.SetDefault("cost.per_kwh_usd", 0.12)
}

func (c *Config) SplitRatios() aggregate.SplitRatios {
	return aggregate.SplitRatios{
		Direct:  c.Split.Direct,
		Battery: c.Split.Battery,
		Grid:    c.Split.Grid,
	}
}

func (c *Config) SharesValue() aggregate.Shares {
	return aggregate.Shares{
		Export:  c.Shares.Export,
		SelfUse: c.Shares.SelfUse,
	}
}
