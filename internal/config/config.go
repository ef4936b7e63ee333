package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/club-odds/internal/platform/logging"
)

// Config stores runtime configuration for oddsctl.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	LogLevel                logging.Level
	LogFormat               logging.Format
	DBURL                   string
	DBDisablePreparedBinary bool
	CacheEnabled            bool
	CacheTTL                time.Duration
	OddsDefaultMargin       float64
	OddsSampleSize          int
	OddsGoalLine            float64
	OddsBulkWindowDays      int
	OddsBulkDelay           time.Duration
	OddsLockLookback        time.Duration
	SchedulerInterval       time.Duration
	OpsHTTPAddr             string
	PprofEnabled            bool
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	RedisEnabled            bool
	RedisURL                string
	RedisStream             string
	RedisStreamMaxLen       int64
	RedisCircuitEnabled     bool
	RedisCircuitFailures    int
	RedisCircuitOpenTimeout time.Duration
	UptraceEnabled          bool
	UptraceDSN              string
	PyroscopeEnabled        bool
	PyroscopeServerAddress  string
	PyroscopeAppName        string
	PyroscopeAuthToken      string
	PyroscopeUploadRate     time.Duration
}

// UsePostgres reports whether a database is configured. Without one the
// in-memory repositories seeded with demo fixtures are used.
func (c Config) UsePostgres() bool {
	return strings.TrimSpace(c.DBURL) != ""
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	margin, err := getEnvAsFloat("ODDS_DEFAULT_MARGIN", 0.05)
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_DEFAULT_MARGIN: %w", err)
	}
	if margin < 0 || margin > 0.5 {
		return Config{}, fmt.Errorf("ODDS_DEFAULT_MARGIN must be between 0 and 0.5")
	}

	sampleSize, err := getEnvAsInt("ODDS_SAMPLE_SIZE", 15)
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_SAMPLE_SIZE: %w", err)
	}
	if sampleSize < 1 {
		return Config{}, fmt.Errorf("ODDS_SAMPLE_SIZE must be >= 1")
	}

	goalLine, err := getEnvAsFloat("ODDS_GOAL_LINE", 2.5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_GOAL_LINE: %w", err)
	}
	if goalLine <= 0 || goalLine-float64(int(goalLine)) != 0.5 {
		return Config{}, fmt.Errorf("ODDS_GOAL_LINE must be a positive half line such as 2.5")
	}

	bulkWindowDays, err := getEnvAsInt("ODDS_BULK_WINDOW_DAYS", 7)
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_BULK_WINDOW_DAYS: %w", err)
	}
	if bulkWindowDays < 1 {
		return Config{}, fmt.Errorf("ODDS_BULK_WINDOW_DAYS must be >= 1")
	}

	bulkDelay, err := time.ParseDuration(getEnv("ODDS_BULK_DELAY", "100ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_BULK_DELAY: %w", err)
	}
	if bulkDelay < 0 {
		return Config{}, fmt.Errorf("ODDS_BULK_DELAY must be >= 0")
	}

	lockLookback, err := time.ParseDuration(getEnv("ODDS_LOCK_LOOKBACK", "6h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_LOCK_LOOKBACK: %w", err)
	}
	if lockLookback <= 0 {
		return Config{}, fmt.Errorf("ODDS_LOCK_LOOKBACK must be > 0")
	}

	schedulerInterval, err := time.ParseDuration(getEnv("SCHEDULER_INTERVAL", "15m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_INTERVAL: %w", err)
	}
	if schedulerInterval <= 0 {
		return Config{}, fmt.Errorf("SCHEDULER_INTERVAL must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	redisEnabled, err := strconv.ParseBool(getEnv("REDIS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_ENABLED: %w", err)
	}
	redisURL := strings.TrimSpace(getEnv("REDIS_URL", ""))
	if redisEnabled && redisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL is required when REDIS_ENABLED=true")
	}
	redisStreamMaxLen, err := getEnvAsInt("REDIS_STREAM_MAX_LEN", 10000)
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_STREAM_MAX_LEN: %w", err)
	}
	if redisStreamMaxLen < 0 {
		return Config{}, fmt.Errorf("REDIS_STREAM_MAX_LEN must be >= 0")
	}
	redisCircuitEnabled, err := strconv.ParseBool(getEnv("REDIS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_CIRCUIT_ENABLED: %w", err)
	}
	redisCircuitFailures, err := getEnvAsInt("REDIS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if redisCircuitFailures < 1 {
		return Config{}, fmt.Errorf("REDIS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	redisCircuitOpenTimeout, err := time.ParseDuration(getEnv("REDIS_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if redisCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("REDIS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                  appEnv,
		ServiceName:             getEnv("APP_SERVICE_NAME", "club-odds"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:                parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:               logging.ParseFormat(getEnv("APP_LOG_FORMAT", string(logging.FormatJSON))),
		DBURL:                   strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		CacheEnabled:            cacheEnabled,
		CacheTTL:                cacheTTL,
		OddsDefaultMargin:       margin,
		OddsSampleSize:          sampleSize,
		OddsGoalLine:            goalLine,
		OddsBulkWindowDays:      bulkWindowDays,
		OddsBulkDelay:           bulkDelay,
		OddsLockLookback:        lockLookback,
		SchedulerInterval:       schedulerInterval,
		OpsHTTPAddr:             strings.TrimSpace(getEnv("OPS_HTTP_ADDR", ":8080")),
		PprofEnabled:            pprofEnabled,
		ReadTimeout:             readTimeout,
		WriteTimeout:            writeTimeout,
		RedisEnabled:            redisEnabled,
		RedisURL:                redisURL,
		RedisStream:             strings.TrimSpace(getEnv("REDIS_STREAM", "odds.changed")),
		RedisStreamMaxLen:       int64(redisStreamMaxLen),
		RedisCircuitEnabled:     redisCircuitEnabled,
		RedisCircuitFailures:    redisCircuitFailures,
		RedisCircuitOpenTimeout: redisCircuitOpenTimeout,
		UptraceEnabled:          uptraceEnabled,
		UptraceDSN:              uptraceDSN,
		PyroscopeEnabled:        pyroscopeEnabled,
		PyroscopeServerAddress:  pyroscopeServerAddress,
		PyroscopeAuthToken:      strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:     pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.ParseFloat(value, 64)
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
