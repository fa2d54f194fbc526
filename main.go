package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go-document-parser/logging"
	"go-document-parser/metrics"
	"go-document-parser/redis"
)

type Config struct {
	ServerConfig ServerConfig `json:"server_config"`

	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`

	// When no key is configured the server still parses, it just skips
	// the signed attestation in its responses.
	JwtPrivateKeyPath string `json:"jwt_private_key_path,omitempty"`
	JwtIssuerId       string `json:"jwt_issuer_id,omitempty"`
	JwtValidityHours  int    `json:"jwt_validity_hours,omitempty"`

	StorageType         string                    `json:"storage_type"`
	RedisConfig         redis.RedisConfig         `json:"redis_config,omitempty"`
	RedisSentinelConfig redis.RedisSentinelConfig `json:"redis_sentinel_config,omitempty"`
}

func main() {
	configPath := flag.String("config", "", "Path for the config.json to use")
	flag.Parse()

	if *configPath == "" {
		slog.Error("please provide a config path using the --config flag")
		os.Exit(1)
	}

	config, err := readConfigFile(*configPath)
	if err != nil {
		slog.Error("failed to read config file", "path", *configPath, "error", err)
		os.Exit(1)
	}

	logging.InitLogger(config.LogLevel, config.LogFormat)
	slog.Info("using config", "path", *configPath)

	jwtCreator, err := createJwtCreator(&config)
	if err != nil {
		slog.Error("failed to instantiate jwt creator", "error", err)
		os.Exit(1)
	}

	historyStorage, err := createHistoryStorage(&config)
	if err != nil {
		slog.Error("failed to instantiate history storage", "error", err)
		os.Exit(1)
	}

	serverState := ServerState{
		historyStorage: historyStorage,
		jwtCreator:     jwtCreator,
		metrics:        metrics.New(),
	}

	server, err := NewServer(&serverState, config.ServerConfig)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	err = server.ListenAndServe()
	if err != nil {
		slog.Error("failed to listen and serve", "error", err)
		os.Exit(1)
	}
}

func readConfigFile(path string) (Config, error) {
	configBytes, err := os.ReadFile(path)

	if err != nil {
		return Config{}, err
	}

	var config Config
	err = json.Unmarshal(configBytes, &config)

	if err != nil {
		return Config{}, err
	}

	return config, nil
}

func createJwtCreator(config *Config) (JwtCreator, error) {
	if config.JwtPrivateKeyPath == "" {
		slog.Info("No jwt private key configured, attestation disabled")
		return nil, nil
	}

	validityHours := config.JwtValidityHours
	if validityHours <= 0 {
		validityHours = 24
	}

	return NewRecordJwtCreator(
		config.JwtPrivateKeyPath,
		config.JwtIssuerId,
		time.Duration(validityHours)*time.Hour,
	)
}

func createHistoryStorage(config *Config) (HistoryStorage, error) {
	if config.StorageType == "redis" {
		slog.Info("Using redis history storage")
		client, err := redis.NewRedisClient(&config.RedisConfig)
		if err != nil {
			return nil, err
		}
		return NewRedisHistoryStorage(client, config.RedisConfig.Namespace), nil
	}
	if config.StorageType == "redis_sentinel" {
		slog.Info("Using redis sentinel storage")
		client, err := redis.NewRedisSentinelClient(&config.RedisSentinelConfig)
		if err != nil {
			return nil, err
		}
		return NewRedisHistoryStorage(client, config.RedisSentinelConfig.Namespace), nil
	}
	if config.StorageType == "memory" {
		slog.Info("Using in memory storage")
		return NewInMemoryHistoryStorage(), nil
	}
	return nil, fmt.Errorf("%v is not a valid storage type", config.StorageType)
}
