package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	EngineSQLite = "sqlite"
	EngineMemory = "memory"
)

type Config struct {
	Addr               string   `env:"ADDR" validate:"required"`
	DBPath             string   `env:"DB_PATH" validate:"required"`
	StorageEngine      string   `env:"STORAGE_ENGINE" validate:"oneof=sqlite memory"`
	LogLevel           string   `env:"LOG_LEVEL" validate:"oneof=DEBUG INFO WARN WARNING ERROR"`
	ImportWorkerCount  int      `env:"IMPORT_WORKER_COUNT" validate:"min=1,max=16"`
	ImportQueueSize    int      `env:"IMPORT_QUEUE_SIZE" validate:"min=1,max=1024"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" validate:"dive,required"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:flashdeck.db"),
		StorageEngine:      strings.ToLower(envOr("STORAGE_ENGINE", EngineSQLite)),
		LogLevel:           strings.ToUpper(envOr("LOG_LEVEL", "INFO")),
		ImportWorkerCount:  envIntOr("IMPORT_WORKER_COUNT", 1),
		ImportQueueSize:    envIntOr("IMPORT_QUEUE_SIZE", 16),
		CORSAllowedOrigins: envListOr("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their environment variable name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// Validate checks that the configuration can be used to start the app.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.Index(name, "["); i > 0 {
		name = name[:i]
	}
	switch fe.Tag() {
	case "required":
		return name + " cannot be empty"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", name, fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
