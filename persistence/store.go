// Package persistence moves serialized model bundles to and from cloud
// object storage. Supported platforms are AWS S3, Google Cloud Storage and
// Azure Blob Storage.
package persistence

import (
	"context"
	"io"

	"github.com/apurvsibal/pycaret/pkg/errors"
)

// Platform identifies a cloud storage backend.
type Platform string

const (
	PlatformAWS   Platform = "aws"
	PlatformGCP   Platform = "gcp"
	PlatformAzure Platform = "azure"
)

// Config carries the backend settings. Bucket names the S3 bucket, GCS
// bucket or Azure container; ConnectionString is Azure-only; Region is
// S3-only.
type Config struct {
	Bucket           string
	Prefix           string
	Region           string
	ConnectionString string
}

// Store uploads and downloads model bundles by key.
type Store interface {
	Upload(ctx context.Context, key string, r io.Reader) error
	Download(ctx context.Context, key string, w io.Writer) error
}

// NewStore builds the store for a platform.
func NewStore(platform Platform, cfg Config) (Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.NewValidationError("bucket", "required", cfg.Bucket)
	}

	switch platform {
	case PlatformAWS:
		return newS3Store(cfg)
	case PlatformGCP:
		return newGCSStore(cfg)
	case PlatformAzure:
		return newAzureStore(cfg)
	default:
		return nil, errors.NewValidationError("platform", "must be aws, gcp or azure", string(platform))
	}
}

// objectKey joins the configured prefix with the bundle key.
func objectKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}
