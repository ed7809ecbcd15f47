// Package config loads trackcore settings from defaults, an optional .env
// file, an optional config file and TRACKCORE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"trackcore/internal/infra/kv/redis"
	"trackcore/internal/infra/kv/s3"
	"trackcore/internal/kv"
)

// EnvPrefix is prepended to every environment variable, e.g.
// TRACKCORE_STORAGE_DRIVER for storage.driver.
const EnvPrefix = "TRACKCORE"

// Config is the resolved application configuration.
type Config struct {
	AppPrefix   string
	LogMode     string
	SeedEnabled bool
	Storage     Storage
}

// Storage selects and configures the slot backend.
type Storage struct {
	Driver      string
	FSRoot      string
	SQLitePath  string
	PostgresDSN string
	S3          s3.Config
	Redis       redis.Config
}

// Options controls where Load looks for inputs.
type Options struct {
	// DotEnvPath is loaded into the process environment when it exists.
	DotEnvPath string
	// ConfigFile is read by viper when set (yaml, json or toml).
	ConfigFile string
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("app.prefix", "tracker")
	v.SetDefault("log.mode", "dev")
	v.SetDefault("seed.enabled", true)
	v.SetDefault("storage.driver", string(kv.DriverFilesystem))
	v.SetDefault("storage.fs.root", "./trackdata")
	v.SetDefault("storage.sqlite.path", "trackcore.db")
	v.SetDefault("storage.postgres.dsn", "")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.key_prefix", "")
	v.SetDefault("storage.s3.path_style", false)
	v.SetDefault("storage.redis.addr", "")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
}

// Load resolves the configuration. Precedence, lowest first: defaults,
// config file, environment (including values injected from the .env file).
func Load(opts Options) (Config, error) {
	if opts.DotEnvPath == "" {
		opts.DotEnvPath = ".env"
	}
	if _, err := os.Stat(opts.DotEnvPath); err == nil {
		if err := godotenv.Load(opts.DotEnvPath); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", opts.DotEnvPath, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("stat %s: %w", opts.DotEnvPath, err)
	}

	v := viper.New()
	setDefaults(v)
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Config{
		AppPrefix:   strings.TrimSpace(v.GetString("app.prefix")),
		LogMode:     v.GetString("log.mode"),
		SeedEnabled: v.GetBool("seed.enabled"),
		Storage: Storage{
			Driver:      strings.ToLower(strings.TrimSpace(v.GetString("storage.driver"))),
			FSRoot:      v.GetString("storage.fs.root"),
			SQLitePath:  v.GetString("storage.sqlite.path"),
			PostgresDSN: v.GetString("storage.postgres.dsn"),
			S3: s3.Config{
				Bucket:    v.GetString("storage.s3.bucket"),
				Region:    v.GetString("storage.s3.region"),
				Endpoint:  v.GetString("storage.s3.endpoint"),
				KeyPrefix: v.GetString("storage.s3.key_prefix"),
				PathStyle: v.GetBool("storage.s3.path_style"),
			},
			Redis: redis.Config{
				Addr:     v.GetString("storage.redis.addr"),
				Password: v.GetString("storage.redis.password"),
				DB:       v.GetInt("storage.redis.db"),
			},
		},
	}
	if cfg.AppPrefix == "" {
		return Config{}, fmt.Errorf("app.prefix must not be empty")
	}
	return cfg, nil
}

// KVOptions converts the storage section into slot store options.
func (c Config) KVOptions() kv.Options {
	return kv.Options{
		Driver:      c.Storage.Driver,
		FSRoot:      c.Storage.FSRoot,
		SQLitePath:  c.Storage.SQLitePath,
		PostgresDSN: c.Storage.PostgresDSN,
		S3:          c.Storage.S3,
		Redis:       c.Storage.Redis,
	}
}
