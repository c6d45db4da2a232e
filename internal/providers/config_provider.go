package providers

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"popcorn/internal/structures"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultOmdbURL = "http://www.omdbapi.com/"

func loadEnvFile(path string) error {
	if path == "" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	return godotenv.Load(path)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	if err := loadEnvFile(flags.EnvPath); err != nil {
		return nil, fmt.Errorf("unable to load env file: %w", err)
	}

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("omdb.baseUrl", DefaultOmdbURL)
	v.SetDefault("omdb.timeout", 10*time.Second)
	v.SetDefault("storage.driver", "file")
	v.SetDefault("cache.ttl", 60*time.Second)

	v.BindEnv("omdb.apiKey", "POPCORN_OMDB_API_KEY")
	v.BindEnv("omdb.baseUrl", "POPCORN_OMDB_URL")
	v.BindEnv("logger.level", "POPCORN_LOG_LEVEL")
	v.BindEnv("storage.driver", "POPCORN_STORAGE_DRIVER")
	v.BindEnv("storage.path", "POPCORN_STORAGE_PATH")
	v.BindEnv("cache.enabled", "POPCORN_CACHE_ENABLED")
	v.BindEnv("metrics.enabled", "POPCORN_METRICS_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "usePopcorn"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
