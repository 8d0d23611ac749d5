// Package driver opens the storage backend selected by storage.driver.
package driver

import (
	"context"
	"fmt"

	"github.com/aanand-mishra/safety-alerts/internal/config"
	"github.com/aanand-mishra/safety-alerts/internal/storage"
	"github.com/aanand-mishra/safety-alerts/internal/storage/jsonfile"
	"github.com/aanand-mishra/safety-alerts/internal/storage/memory"
	"github.com/aanand-mishra/safety-alerts/internal/storage/s3"
	"github.com/aanand-mishra/safety-alerts/internal/storage/sqlite"
)

// Open returns the backend for cfg. The caller owns Close.
func Open(ctx context.Context, cfg config.Storage) (storage.Storage, error) {
	st, err := open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("driver.Open %s: %w", cfg.Driver, err)
	}
	return st, nil
}

// Each branch checks its own error: a nil *T must not reach the interface.
func open(ctx context.Context, cfg config.Storage) (storage.Storage, error) {
	switch cfg.Driver {
	case config.DriverJSON:
		s, err := jsonfile.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.DriverSQLite:
		s, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.DriverS3:
		s, err := s3.New(ctx, s3.Config{
			Bucket:          cfg.S3.Bucket,
			Key:             cfg.S3.Key,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.DriverMemory:
		s, err := memory.New()
		if err != nil {
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
