package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration defaults for the link generator. Every
// value can be overridden by a command-line flag; the values here come from
// the environment (TRANSITLINK_* plus a few well-known external names), an
// optional transitlink.yaml in the working directory, and a .env file.
//
// Fields:
// - Env: The current environment (local, development, production), drives log verbosity.
// - Provider: The preferred geocoding provider (yandex, nominatim, photon).
// - APIKey: The Yandex Geocoder API key (required for the Yandex provider).
// - Contact: Contact address embedded in the User-Agent for Nominatim politeness.
// - AddrPrefix: Prefix prepended to addresses for geocoding context (e.g. "Москва, ").
// - Lang: Geocoder language, e.g. "ru_RU".
// - Domain: Map-application domain the links point at.
// - Output: Default output file path.
// - Format: Default output format (csv, pairs).
// - CachePath: Path of the persistent coordinate cache file.
type Config struct {
	Env        string `mapstructure:"env"`
	Provider   string `mapstructure:"provider"`
	APIKey     string `mapstructure:"apikey"`
	Contact    string `mapstructure:"contact"`
	AddrPrefix string `mapstructure:"prepend"`
	Lang       string `mapstructure:"lang"`
	Domain     string `mapstructure:"domain"`
	Output     string `mapstructure:"output"`
	Format     string `mapstructure:"format"`
	CachePath  string `mapstructure:"cache"`
}

// MustLoad loads the configuration from the environment and the optional
// transitlink.yaml config file. It panics when the config file exists but
// cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	vpr := viper.New()

	// Bind every key explicitly: Unmarshal does not consult AutomaticEnv.
	for _, key := range []string{"env", "provider", "lang", "domain", "output", "format", "cache"} {
		_ = vpr.BindEnv(key, "TRANSITLINK_"+strings.ToUpper(key))
	}

	// Well-known external variable names honored alongside the prefixed ones.
	_ = vpr.BindEnv("apikey", "TRANSITLINK_APIKEY", "YANDEX_GEOCODER_API_KEY")
	_ = vpr.BindEnv("contact", "TRANSITLINK_CONTACT", "NOMINATIM_EMAIL")
	_ = vpr.BindEnv("prepend", "TRANSITLINK_PREPEND", "ADDRESS_PREPEND")

	vpr.SetDefault("env", "production")
	vpr.SetDefault("provider", "yandex")
	vpr.SetDefault("lang", "ru_RU")
	vpr.SetDefault("domain", "yandex.ru")
	vpr.SetDefault("output", "links.csv")
	vpr.SetDefault("format", "csv")
	vpr.SetDefault("cache", "geocache.json")

	vpr.SetConfigName("transitlink")
	vpr.SetConfigType("yaml")
	vpr.AddConfigPath(".")

	if err := vpr.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic("failed to read config file: " + err.Error())
		}
	}

	var cfg Config
	if err := vpr.Unmarshal(&cfg); err != nil {
		panic("failed to unmarshal configuration: " + err.Error())
	}

	return &cfg
}
