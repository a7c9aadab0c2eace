package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration for the verification engine.
type Server struct {
	Addr string

	// Registry holds the bounded-retry policy for ledger lookups.
	Registry Registry

	// Verification bounds a single orchestrated verify call.
	Verification Verification

	// Enrichment bounds directory fan-out within one scope.
	Enrichment Enrichment

	// ReceiptSigningKey signs issuance receipts (HS256).
	ReceiptSigningKey string

	// BlobDir is where issued document files are stored.
	BlobDir string

	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
}

// Registry configures the retry decorator around the registry client.
type Registry struct {
	MaxAttempts int
	Backoff     time.Duration
}

// Verification configures the orchestrator's deadlines.
type Verification struct {
	// CallTimeout bounds the whole verify call, lookup included.
	CallTimeout time.Duration
	// EnrichmentTimeout bounds the identity fan-out; expiry degrades the
	// result to nil identity fields, it never fails the verification.
	EnrichmentTimeout time.Duration
}

// Enrichment configures the identity resolver and its directories.
type Enrichment struct {
	// Concurrency is the ceiling on in-flight directory calls per scope.
	Concurrency int
	// DirectoryTimeout bounds a single directory lookup.
	DirectoryTimeout time.Duration

	// Base URLs of the organization and subject directories.
	OrganizationDirectoryURL string
	SubjectDirectoryURL      string
}

// RedisConfig configures the optional Redis-backed registry store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the optional Postgres-backed registry store.
type PostgresConfig struct {
	DSN string
}

// KafkaConfig configures the audit event publisher.
type KafkaConfig struct {
	Seeds []string
	Topic string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr: envString("VERIDOC_ADDR", ":8080"),
		Registry: Registry{
			MaxAttempts: envInt("VERIDOC_REGISTRY_MAX_ATTEMPTS", 3),
			Backoff:     envDuration("VERIDOC_REGISTRY_BACKOFF", 200*time.Millisecond),
		},
		Verification: Verification{
			CallTimeout:       envDuration("VERIDOC_VERIFY_TIMEOUT", 10*time.Second),
			EnrichmentTimeout: envDuration("VERIDOC_ENRICHMENT_TIMEOUT", 3*time.Second),
		},
		Enrichment: Enrichment{
			Concurrency:              envInt("VERIDOC_ENRICHMENT_CONCURRENCY", 8),
			DirectoryTimeout:         envDuration("VERIDOC_DIRECTORY_TIMEOUT", 2*time.Second),
			OrganizationDirectoryURL: envString("VERIDOC_ORG_DIRECTORY_URL", "http://localhost:8081/organizations"),
			SubjectDirectoryURL:      envString("VERIDOC_SUBJECT_DIRECTORY_URL", "http://localhost:8082/subjects"),
		},
		// Default for development only; override in production.
		ReceiptSigningKey: envString("VERIDOC_RECEIPT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		BlobDir:           envString("VERIDOC_BLOB_DIR", "./data/blobs"),
		Redis: RedisConfig{
			URL:          os.Getenv("VERIDOC_REDIS_URL"),
			PoolSize:     envInt("VERIDOC_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("VERIDOC_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("VERIDOC_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("VERIDOC_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("VERIDOC_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("VERIDOC_POSTGRES_DSN"),
		},
		Kafka: KafkaConfig{
			Seeds: envList("VERIDOC_KAFKA_SEEDS"),
			Topic: envString("VERIDOC_KAFKA_AUDIT_TOPIC", "veridoc.audit"),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList splits a comma-separated variable, trimming whitespace and
// dropping empty and repeated entries so a sloppy VERIDOC_KAFKA_SEEDS
// value still yields a usable broker list.
func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}
