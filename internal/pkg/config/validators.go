// internal/pkg/config/validators.go
package config

import (
	"fmt"
	"reflect"
	"strings"
)

// Validator checks one aspect of a loaded configuration
type Validator interface {
	Validate(cfg *Config) error
}

// BasicValidator performs basic configuration validation
type BasicValidator struct{}

// Validate performs basic validation
func (v *BasicValidator) Validate(cfg *Config) error {
	// Validate required fields using reflection
	if err := validateRequiredFields(cfg); err != nil {
		return err
	}

	switch cfg.Store.Driver {
	case StoreDriverFile:
		if cfg.Store.FilePath == "" {
			return fmt.Errorf("%w: STORE_FILE_PATH", ErrMissingRequiredConfig)
		}
	case StoreDriverBadger:
		if cfg.Store.BadgerDir == "" {
			return fmt.Errorf("%w: STORE_BADGER_DIR", ErrMissingRequiredConfig)
		}
	case StoreDriverS3:
		if cfg.AWS.S3Bucket == "" || cfg.AWS.SnapshotKey == "" {
			return fmt.Errorf("%w: AWS_S3_BUCKET and AWS_S3_SNAPSHOT_KEY", ErrMissingRequiredConfig)
		}
	case StoreDriverPostgres:
		if cfg.Database.Host == "" || cfg.Database.Name == "" {
			return fmt.Errorf("%w: DB_HOST and DB_NAME", ErrMissingRequiredConfig)
		}
	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if cfg.Store.LowStockThreshold < 0 {
		return fmt.Errorf("low_stock_threshold must not be negative")
	}

	if cfg.Database.MaxOpenConns < cfg.Database.MaxIdleConns {
		return fmt.Errorf("database max_open_conns must be >= max_idle_conns")
	}

	if cfg.Redis.PoolSize <= 0 {
		return fmt.Errorf("redis pool_size must be positive")
	}

	if cfg.Security.RateLimitRequests <= 0 {
		return fmt.Errorf("rate_limit_requests must be positive")
	}

	if cfg.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive")
	}

	if cfg.AWS.BackupEnabled && (!cfg.Asynq.Enabled || cfg.AWS.S3Bucket == "") {
		return fmt.Errorf("backups require ASYNQ_ENABLED and AWS_S3_BUCKET")
	}

	// the worker reads the store while the api holds it open; badger locks
	// its directory to a single process
	if cfg.AWS.BackupEnabled && cfg.Store.Driver == StoreDriverBadger {
		return fmt.Errorf("backups are not supported with the %s store driver", StoreDriverBadger)
	}

	return nil
}

// ProductionValidator performs strict validation for production environments
type ProductionValidator struct{}

// Validate performs production-specific validation
func (v *ProductionValidator) Validate(cfg *Config) error {
	// Check for placeholder values
	if cfg.Store.Driver == StoreDriverPostgres && strings.Contains(cfg.Database.Password, "MISSING_") {
		return fmt.Errorf("%w: database password", ErrMissingRequiredConfig)
	}

	// Ensure secure defaults in production
	if cfg.Store.Driver == StoreDriverPostgres && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("database SSL must be enabled in production")
	}

	if !cfg.Security.SecureHeaders {
		return fmt.Errorf("secure headers must be enabled in production")
	}

	if len(cfg.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("allowed origins must be configured in production")
	}

	for _, origin := range cfg.Security.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("wildcard origin (*) not allowed in production")
		}
	}

	if cfg.App.Debug {
		return fmt.Errorf("debug mode cannot be enabled in production")
	}

	return nil
}

// validateRequiredFields uses reflection to check required struct tags
func validateRequiredFields(cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	return validateStruct(v, "")
}

func validateStruct(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		fieldName := fieldType.Name

		if prefix != "" {
			fieldName = prefix + "." + fieldName
		}

		if fieldType.Tag.Get("required") == "true" && isZeroValue(field) {
			return fmt.Errorf("%w: %s", ErrMissingRequiredConfig, fieldName)
		}

		// Recursively check nested structs
		if field.Kind() == reflect.Struct {
			if err := validateStruct(field, fieldName); err != nil {
				return err
			}
		}
	}

	return nil
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == "" || strings.HasPrefix(v.String(), "MISSING_")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
