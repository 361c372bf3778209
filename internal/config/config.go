package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/trigg3rX/keybrowser/internal/scanner"
	redisclient "github.com/trigg3rX/keybrowser/pkg/client/redis"
	"github.com/trigg3rX/keybrowser/pkg/env"
)

type Config struct {
	devMode bool

	// Deployment to browse
	mode           redisclient.Mode
	addrs          []string
	sentinelMaster string
	username       string
	password       string
	db             int

	sentinelUsername string
	sentinelPassword string

	// go-redis connection pool
	poolSize     int
	dialTimeout  time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration

	// Scan budget
	countDefault   int64
	countThreshold int64

	// HTTP surface
	apiPort        string
	corsOrigins    []string
	requestTimeout time.Duration

	// cron spec for sampling the keyspace total into metrics, empty disables it
	totalSampleSchedule string

	logDir string
}

var cfg Config

// Init loads .env from the working directory, when present, and the process
// environment.
func Init() error {
	return InitWithEnvFile(".env")
}

func InitWithEnvFile(envFile string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error loading %s file: %w", envFile, err)
	}

	mode, err := redisclient.ParseMode(env.GetEnvString("KEYBROWSER_MODE", string(redisclient.ModeStandalone)))
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = Config{
		devMode:             env.GetEnvBool("DEV_MODE", false),
		mode:                mode,
		addrs:               env.GetEnvStringSlice("REDIS_ADDRS", []string{"localhost:6379"}),
		sentinelMaster:      env.GetEnvString("REDIS_SENTINEL_MASTER", ""),
		username:            env.GetEnvString("REDIS_USERNAME", ""),
		password:            env.GetEnvString("REDIS_PASSWORD", ""),
		db:                  env.GetEnvInt("REDIS_DB", 0),
		sentinelUsername:    env.GetEnvString("REDIS_SENTINEL_USERNAME", ""),
		sentinelPassword:    env.GetEnvString("REDIS_SENTINEL_PASSWORD", ""),
		poolSize:            env.GetEnvInt("REDIS_POOL_SIZE", 10),
		dialTimeout:         env.GetEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		readTimeout:         env.GetEnvDuration("REDIS_READ_TIMEOUT", 10*time.Second),
		writeTimeout:        env.GetEnvDuration("REDIS_WRITE_TIMEOUT", 10*time.Second),
		countDefault:        env.GetEnvInt64("SCAN_COUNT_DEFAULT", scanner.DefaultCountDefault),
		countThreshold:      env.GetEnvInt64("SCAN_COUNT_THRESHOLD", scanner.DefaultCountThreshold),
		apiPort:             env.GetEnvString("API_PORT", "9010"),
		corsOrigins:         env.GetEnvStringSlice("API_CORS_ORIGINS", []string{"*"}),
		requestTimeout:      env.GetEnvDuration("API_REQUEST_TIMEOUT", 30*time.Second),
		totalSampleSchedule: env.GetEnvString("TOTAL_SAMPLE_SCHEDULE", "@every 1m"),
		logDir:              env.GetEnvString("LOG_DIR", ""),
	}
	if err := validateConfig(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !cfg.devMode {
		gin.SetMode(gin.ReleaseMode)
	}
	return nil
}

func validateConfig() error {
	for _, addr := range cfg.addrs {
		if !env.IsValidHostPort(addr) {
			return fmt.Errorf("invalid redis address: %s", addr)
		}
	}
	if err := RedisOptions().Validate(); err != nil {
		return err
	}
	if err := ScannerConfig().Validate(); err != nil {
		return err
	}
	if cfg.poolSize <= 0 {
		return fmt.Errorf("invalid redis pool size: %d", cfg.poolSize)
	}
	if !env.IsValidPort(cfg.apiPort) {
		return fmt.Errorf("invalid API port: %s", cfg.apiPort)
	}
	if cfg.requestTimeout <= 0 {
		return fmt.Errorf("invalid API request timeout: %v", cfg.requestTimeout)
	}
	return nil
}

// RedisOptions returns the connection options for pkg/client/redis.
func RedisOptions() redisclient.Options {
	return redisclient.Options{
		Mode:             cfg.mode,
		Addrs:            cfg.addrs,
		MasterName:       cfg.sentinelMaster,
		Username:         cfg.username,
		Password:         cfg.password,
		DB:               cfg.db,
		SentinelUsername: cfg.sentinelUsername,
		SentinelPassword: cfg.sentinelPassword,
		ConnectionSettings: redisclient.ConnectionSettings{
			PoolSize:     cfg.poolSize,
			DialTimeout:  cfg.dialTimeout,
			ReadTimeout:  cfg.readTimeout,
			WriteTimeout: cfg.writeTimeout,
		},
	}
}

func ScannerConfig() scanner.Config {
	return scanner.Config{
		CountDefault:   cfg.countDefault,
		CountThreshold: cfg.countThreshold,
	}
}

func IsDevMode() bool {
	return cfg.devMode
}

func GetMode() redisclient.Mode {
	return cfg.mode
}

func GetAPIPort() string {
	return cfg.apiPort
}

func GetCORSOrigins() []string {
	return cfg.corsOrigins
}

func GetRequestTimeout() time.Duration {
	return cfg.requestTimeout
}

func GetTotalSampleSchedule() string {
	return cfg.totalSampleSchedule
}

func GetLogDir() string {
	return cfg.logDir
}
