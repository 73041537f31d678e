package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Kafka struct {
	Enabled    bool
	Brokers    []string
	Topic      string
	Group      string
	Workers    int
	Partitions int
}

type Postgres struct {
	Host       string
	Port       string
	DB         string
	User       string
	Password   string
	SSLMode    string
	Schema     string
	TraceLevel string
}

type Breaker struct {
	Threshold   uint32
	OpenTimeout time.Duration
	MaxHalfOpen uint32
}

type Retry struct {
	Attempts     int
	Base         time.Duration
	Max          time.Duration
	JitterFactor float64
}

type Config struct {
	HTTPAddr      string
	StaticDir     string
	Storage       string
	CacheCap      int
	LogLevel      string
	MetricsBuffer int

	Pg      Postgres
	Kafka   Kafka
	Breaker Breaker
	Retry   Retry
}

// DefaultEnvFile is read before the process environment; a missing file is fine.
const DefaultEnvFile = "env/.env"

func Load(envFile string) (Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}
	return load()
}

func load() (Config, error) {
	cfg := Config{
		HTTPAddr:      envDefault("HTTP_ADDR", ":8081"),
		StaticDir:     envDefault("STATIC_DIR", "./web"),
		Storage:       strings.ToLower(envDefault("STORAGE", StoragePostgres)),
		CacheCap:      envInt("CACHE_CAP", 1000),
		LogLevel:      envDefault("LOG_LEVEL", "info"),
		MetricsBuffer: envInt("METRICS_BUFFER", 256),

		Pg: Postgres{
			Host:       strings.TrimSpace(os.Getenv("PG_HOST")),
			Port:       envDefault("PG_PORT", "5432"),
			DB:         strings.TrimSpace(os.Getenv("PG_DB")),
			User:       strings.TrimSpace(os.Getenv("PG_USER")),
			Password:   strings.TrimSpace(os.Getenv("PG_PASSWORD")),
			SSLMode:    envDefault("PG_SSLMODE", "disable"),
			Schema:     envDefault("DB_SCHEMA", "public"),
			TraceLevel: envDefault("PG_TRACE_LEVEL", "none"),
		},

		Kafka: Kafka{
			Enabled:    envBool("KAFKA_ENABLED", false),
			Brokers:    splitCSV(strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))),
			Topic:      strings.TrimSpace(os.Getenv("KAFKA_TOPIC")),
			Group:      strings.TrimSpace(os.Getenv("KAFKA_GROUP")),
			Workers:    envInt("KAFKA_WORKERS", 10),
			Partitions: envInt("KAFKA_PARTITIONS", 3),
		},

		Breaker: Breaker{
			Threshold:   envUint32("BREAKER_THRESHOLD", 5),
			OpenTimeout: envDurationMS("BREAKER_OPENTIMEOUT", 10*time.Second),
			MaxHalfOpen: envUint32("BREAKER_MAXHALFOPEN", 3),
		},

		Retry: Retry{
			Attempts:     envInt("RETRY_ATTEMPTS", 5),
			Base:         envDurationMS("RETRY_BASE", 100*time.Millisecond),
			Max:          envDurationMS("RETRY_MAX", 5*time.Second),
			JitterFactor: envFloat64("RETRY_JITTERFACTOR", 0.3),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c Config) validate() error {
	req := map[string]string{}
	switch c.Storage {
	case StoragePostgres:
		req["PG_HOST"] = c.Pg.Host
		req["PG_DB"] = c.Pg.DB
		req["PG_USER"] = c.Pg.User
		req["PG_PASSWORD"] = c.Pg.Password
	case StorageMemory:
	default:
		return &invalidEnvError{Key: "STORAGE", Value: c.Storage}
	}
	if c.Kafka.Enabled {
		req["KAFKA_BROKERS"] = strings.Join(c.Kafka.Brokers, ",")
		req["KAFKA_TOPIC"] = c.Kafka.Topic
		req["KAFKA_GROUP"] = c.Kafka.Group
	}

	var missing []string
	for k, v := range req {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &missingEnvError{Keys: missing}
	}
	return nil
}

// normalize clamps values that are present but unusable.
func (c *Config) normalize() {
	if c.CacheCap <= 0 {
		log.Printf("CACHE_CAP is %d, adjusting to 1", c.CacheCap)
		c.CacheCap = 1
	}
	if c.MetricsBuffer <= 0 {
		log.Printf("METRICS_BUFFER is %d, adjusting to 1", c.MetricsBuffer)
		c.MetricsBuffer = 1
	}
	if c.Kafka.Workers <= 0 {
		log.Printf("KAFKA_WORKERS is %d, adjusting to 1", c.Kafka.Workers)
		c.Kafka.Workers = 1
	}
	if c.Retry.Attempts < 0 {
		log.Printf("RETRY_ATTEMPTS is %d, adjusting to 0", c.Retry.Attempts)
		c.Retry.Attempts = 0
	}
	if c.Retry.Base <= 0 {
		log.Printf("RETRY_BASE is %v, adjusting to 100ms", c.Retry.Base)
		c.Retry.Base = 100 * time.Millisecond
	}
	if c.Retry.Max < c.Retry.Base {
		log.Printf("RETRY_MAX (%v) < RETRY_BASE (%v), adjusting max to base", c.Retry.Max, c.Retry.Base)
		c.Retry.Max = c.Retry.Base
	}
}

type missingEnvError struct{ Keys []string }

func (e *missingEnvError) Error() string {
	return "missing required envs: " + strings.Join(e.Keys, ", ")
}

type invalidEnvError struct{ Key, Value string }

func (e *invalidEnvError) Error() string {
	return "invalid " + e.Key + "=" + strconv.Quote(e.Value)
}

// DSN builds a Postgres URL, escaping user/pass and pinning search_path to the schema.
func (c Config) DSN() string {
	return c.pgURL("postgres").String()
}

// MigrateURL is the DSN in the form golang-migrate's pgx/v5 driver expects.
func (c Config) MigrateURL() string {
	return c.pgURL("pgx5").String()
}

func (c Config) pgURL(scheme string) *url.URL {
	u := &url.URL{
		Scheme: scheme,
		User:   url.UserPassword(c.Pg.User, c.Pg.Password),
		Host:   net.JoinHostPort(c.Pg.Host, c.Pg.Port),
		Path:   "/" + c.Pg.DB,
	}
	q := url.Values{}
	if c.Pg.SSLMode != "" {
		q.Set("sslmode", c.Pg.SSLMode)
	}
	if c.Pg.Schema != "" {
		q.Set("search_path", c.Pg.Schema)
	}
	u.RawQuery = q.Encode()
	return u
}

func envDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %t: %v", k, v, def, err)
		return def
	}
	return b
}

func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return n
}

func envUint32(k string, def uint32) uint32 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	u, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return uint32(u)
}

func envFloat64(k string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %.3f: %v", k, v, def, err)
		return def
	}
	return f
}

// envDurationMS accepts plain milliseconds ("1500") or Go durations ("1.5s", "250ms").
func envDurationMS(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if strings.IndexFunc(v, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
			return def
		}
		return d
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
