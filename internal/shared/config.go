package shared

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"

	"stay_reviews/internal/nlg/scoring"
)

// ConfigPathEnvVar names an optional YAML file layered between defaults and env.
const ConfigPathEnvVar = "CONFIG_PATH"

type Config struct {
	AppEnv      string `koanf:"app_env"`
	LogLevel    string `koanf:"log_level"`
	HTTPAddr    string `koanf:"http_addr"`
	MetricsAddr string `koanf:"metrics_addr"`
	MySQLDSN    string `koanf:"mysql_dsn"`
	RedisAddr   string `koanf:"redis_addr"`
	RedisDB     int    `koanf:"redis_db"`
	RedisPass   string `koanf:"redis_password"`
	CupidBase   string `koanf:"cupid_base_url"`
	CupidKey    string `koanf:"cupid_api_key"`
	CupidRPS    int    `koanf:"cupid_rps"`
	NATSURL     string `koanf:"nats_url"`
	NATSSubject string `koanf:"nats_subject"`
	Workers     int    `koanf:"batch_workers"`
	// CacheTTLSeconds is read through CacheTTL.
	CacheTTLSeconds    int      `koanf:"cache_ttl_seconds"`
	RateLimitPerMinute int      `koanf:"rate_limit_per_minute"`
	CORSOrigins        []string `koanf:"cors_origins"`
	// GeneratorSeed fixes the engine's random source; 0 means random per call.
	GeneratorSeed uint64             `koanf:"generator_seed"`
	Scoring       scoring.Thresholds `koanf:"scoring"`
}

func (c Config) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSeconds) * time.Second }

func defaultConfig() Config {
	return Config{
		AppEnv:             "prod",
		LogLevel:           "info",
		HTTPAddr:           ":8080",
		MetricsAddr:        ":9100",
		MySQLDSN:           "root:root@tcp(localhost:3306)/stay_reviews?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		RedisAddr:          "localhost:6379",
		CupidBase:          "https://content-api.cupid.travel/v3.0",
		CupidRPS:           5,
		NATSSubject:        "reviews.generated",
		Workers:            8,
		CacheTTLSeconds:    900,
		RateLimitPerMinute: 120,
		CORSOrigins:        []string{"*"},
		Scoring:            scoring.DefaultThresholds(),
	}
}

// Load layers defaults, the optional CONFIG_PATH file and the environment. A source
// that cannot be read or decoded is skipped with a warning; it never stops startup.
func Load() Config {
	c, err := load(os.Getenv(ConfigPathEnvVar))
	if err != nil {
		log.Warn().Err(err).Msg("config: falling back to defaults")
		c = defaultConfig()
	}
	c.sanitize()
	if c.CupidKey == "" {
		log.Warn().Msg("CUPID_API_KEY is empty")
	}
	return c
}

func load(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("config: file ignored")
		}
	}
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}
	if v, ok := k.Get("cors_origins").(string); ok {
		if err := k.Set("cors_origins", splitList(v)); err != nil {
			return Config{}, err
		}
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

var envKeys = map[string]string{
	"APP_ENV":                    "app_env",
	"LOG_LEVEL":                  "log_level",
	"HTTP_ADDR":                  "http_addr",
	"METRICS_ADDR":               "metrics_addr",
	"MYSQL_DSN":                  "mysql_dsn",
	"REDIS_ADDR":                 "redis_addr",
	"REDIS_DB":                   "redis_db",
	"REDIS_PASSWORD":             "redis_password",
	"CUPID_BASE_URL":             "cupid_base_url",
	"CUPID_API_KEY":              "cupid_api_key",
	"CUPID_RPS":                  "cupid_rps",
	"NATS_URL":                   "nats_url",
	"NATS_SUBJECT":               "nats_subject",
	"BATCH_WORKERS":              "batch_workers",
	"CACHE_TTL_SECONDS":          "cache_ttl_seconds",
	"RATE_LIMIT_PER_MINUTE":      "rate_limit_per_minute",
	"CORS_ORIGINS":               "cors_origins",
	"GENERATOR_SEED":             "generator_seed",
	"SCORING_VARIANCE_THRESHOLD": "scoring.variance_threshold",
	"SCORING_PRONOUN_MIN":        "scoring.pronoun_min",
	"SCORING_POINTS_PER_SIGNAL":  "scoring.points_per_signal",
}

// envKey maps a known variable to its config path; unknown variables are dropped.
func envKey(k string) string { return envKeys[k] }

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// sanitize replaces out-of-range numbers with defaults.
func (c *Config) sanitize() {
	def := defaultConfig()
	fix := func(name string, v *int, d int) {
		if *v <= 0 {
			log.Warn().Str("key", name).Int("value", *v).Int("default", d).Msg("config: invalid value, using default")
			*v = d
		}
	}
	fix("BATCH_WORKERS", &c.Workers, def.Workers)
	fix("CUPID_RPS", &c.CupidRPS, def.CupidRPS)
	fix("CACHE_TTL_SECONDS", &c.CacheTTLSeconds, def.CacheTTLSeconds)
	fix("RATE_LIMIT_PER_MINUTE", &c.RateLimitPerMinute, def.RateLimitPerMinute)
	fix("SCORING_PRONOUN_MIN", &c.Scoring.PronounMin, def.Scoring.PronounMin)
	fix("SCORING_POINTS_PER_SIGNAL", &c.Scoring.PointsPerSignal, def.Scoring.PointsPerSignal)
	if c.Scoring.VarianceThreshold < 0 {
		c.Scoring.VarianceThreshold = def.Scoring.VarianceThreshold
	}
	if c.RedisDB < 0 {
		c.RedisDB = 0
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = def.CORSOrigins
	}
}
