package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

// SessionConfig is the cookie/session policy. MaxAge applies to both mint and
// refresh so the two paths cannot diverge. RequireSigned switches the codec
// from the source-compatible reversible encoding to HMAC-signed tokens with
// SignedTTL expiry; the two modes never accept each other's tokens.
type SessionConfig struct {
	Secret        string
	MaxAge        time.Duration
	SignedTTL     time.Duration
	RequireSigned bool
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Storage          StorageConfig
	Redis            RedisConfig
	Postgres         PostgresConfig
	Session          SessionConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("STAGELINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("storage.bucket", "stagelink-data")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	// Empty addr disables the notification side-channel.
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)

	// Empty DSN disables audit persistence (events still go to the log).
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 10)
	v.SetDefault("postgres.maxidle", 2)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("session.maxage", "168h") // 7 days
	v.SetDefault("session.signedttl", "168h")
	v.SetDefault("session.requiresigned", false)
}
