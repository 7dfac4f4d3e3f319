package config

import (
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks that the configuration is complete enough to start the
// server. Production additionally refuses to run with an empty JWT secret
// fallback that development tolerates.
func Validate(cfg *Config) error {
	if cfg.DBName == "" {
		return ValidationError{Field: "DB_NAME", Message: "database name is required"}
	}
	if cfg.DBUser == "" {
		return ValidationError{Field: "DB_USER", Message: "database user is required"}
	}
	if cfg.JWTSecret == "" {
		if IsProduction() {
			return ValidationError{Field: "JWT_SECRET", Message: "JWT secret is required in production"}
		}
		cfg.JWTSecret = "dev-secret"
	}
	switch cfg.StorageDriver {
	case "local":
		if cfg.UploadDir == "" {
			return ValidationError{Field: "UPLOAD_DIR", Message: "upload directory is required for local storage"}
		}
	case "s3":
		if cfg.S3Bucket == "" {
			return ValidationError{Field: "S3_BUCKET_NAME", Message: "bucket name is required for s3 storage"}
		}
	default:
		return ValidationError{Field: "STORAGE_DRIVER", Message: fmt.Sprintf("unknown storage driver %q", cfg.StorageDriver)}
	}
	if cfg.RateLimitRequests <= 0 {
		return ValidationError{Field: "RATE_LIMIT_REQUESTS", Message: "rate limit must be positive"}
	}
	return nil
}
