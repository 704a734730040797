package config

import (
	"fmt"
	"go/token"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/opgen/internal/emit"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Generated source
	Package       string
	RecordType    string
	ExtRecordType string
	DeclareTypes  bool
	LookupFunc    string

	// Table naming
	BaseMap   string
	ExtMap    string
	ExtTag    string
	BaseSlice string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL       time.Duration
	CacheResults bool
}

func Load() Config {
	defaults := emit.DefaultOptions()
	cfg := Config{
		Port: envOr("OPGEN_PORT", "8090"),

		APIKey: os.Getenv("OPGEN_API_KEY"),

		Package:       envOr("OPGEN_PACKAGE", "cpu"),
		RecordType:    envOr("OPGEN_RECORD_TYPE", "opcode"),
		ExtRecordType: envOr("OPGEN_EXT_RECORD_TYPE", "extOpcode"),
		DeclareTypes:  envBool("OPGEN_DECLARE_TYPES", false),
		LookupFunc:    os.Getenv("OPGEN_LOOKUP_FUNC"),

		BaseMap:   envOr("OPGEN_BASE_MAP", defaults.BaseMap),
		ExtMap:    envOr("OPGEN_EXT_MAP", defaults.ExtMap),
		ExtTag:    envOr("OPGEN_EXT_TAG", defaults.ExtTag),
		BaseSlice: envOr("OPGEN_BASE_SLICE", defaults.BaseSlice),

		WorkerCount:  envInt("OPGEN_WORKERS", 4),
		MaxQueueSize: envInt("OPGEN_MAX_QUEUE", 100),

		MaxUploadBytes: envInt64("OPGEN_MAX_UPLOAD_BYTES", 10485760), // 10MB

		JobTTL:       envDuration("OPGEN_JOB_TTL", 1*time.Hour),
		CacheResults: envBool("OPGEN_CACHE_RESULTS", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if !token.IsIdentifier(c.Package) {
		return fmt.Errorf("OPGEN_PACKAGE %q is not a Go identifier", c.Package)
	}
	if !token.IsIdentifier(c.RecordType) {
		return fmt.Errorf("OPGEN_RECORD_TYPE %q is not a Go identifier", c.RecordType)
	}
	if err := c.GoOptions("").Validate(); err != nil {
		return err
	}
	return c.EmitOptions().Validate()
}

// EmitOptions returns the table naming options.
func (c Config) EmitOptions() emit.Options {
	opts := emit.DefaultOptions()
	opts.BaseMap = c.BaseMap
	opts.ExtMap = c.ExtMap
	opts.ExtTag = c.ExtTag
	opts.BaseSlice = c.BaseSlice
	opts.Reserved = c.GoOptions("").Names()
	return opts
}

// GoOptions returns the Go writer options for a document named source.
func (c Config) GoOptions(source string) emit.GoOptions {
	return emit.GoOptions{
		Package:       c.Package,
		Source:        source,
		RecordType:    c.RecordType,
		ExtRecordType: c.ExtRecordType,
		DeclareTypes:  c.DeclareTypes,
		LookupFunc:    c.LookupFunc,
	}
}

func envOr(key, fallback string) string {
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

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
