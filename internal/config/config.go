package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Gemini generation
	GeminiAPIKey string
	GeminiModel  string
	LLMTimeout   time.Duration

	// Directories
	UploadDir string
	OutputDir string

	// Upload limits
	MaxUploadBytes int64

	// Job lifecycle
	MaxActiveJobs int
	CleanupDelay  time.Duration

	// Per-job content generation fan-out
	MaxConcurrentGenerate int

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8000"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-1.5-flash"),
		LLMTimeout:   envDuration("LLM_TIMEOUT", 120*time.Second),

		UploadDir: envOr("UPLOAD_DIR", "uploads"),
		OutputDir: envOr("OUTPUT_DIR", "outputs"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		MaxActiveJobs: envInt("MAX_ACTIVE_JOBS", 10),
		CleanupDelay:  envDuration("CLEANUP_DELAY", 5*time.Minute),

		MaxConcurrentGenerate: envInt("MAX_CONCURRENT_GENERATE", 8),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.MaxActiveJobs <= 0 {
		cfg.MaxActiveJobs = 10
	}
	if cfg.CleanupDelay <= 0 {
		cfg.CleanupDelay = 5 * time.Minute
	}
	if cfg.MaxConcurrentGenerate <= 0 {
		cfg.MaxConcurrentGenerate = 8
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 120 * time.Second
	}

	return cfg
}

// Validate checks invariants that must hold at startup. A missing Gemini key
// is not a startup error: the service runs in deterministic fallback mode
// without it.
func (c Config) Validate() error {
	if c.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}
	return nil
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
