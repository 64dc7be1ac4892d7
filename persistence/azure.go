package persistence

import (
	"context"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/apurvsibal/pycaret/pkg/errors"
)

// azureStore stores model bundles in an Azure Blob Storage container.
// Config.Bucket names the container; authentication uses the connection
// string.
type azureStore struct {
	client *azblob.Client
	cfg    Config
}

func newAzureStore(cfg Config) (*azureStore, error) {
	if cfg.ConnectionString == "" {
		return nil, errors.NewValidationError("connection_string", "required for the azure platform", nil)
	}

	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, errors.Wrap(err, "new azure blob client")
	}
	return &azureStore{client: client, cfg: cfg}, nil
}

func (s *azureStore) Upload(ctx context.Context, key string, r io.Reader) error {
	_, err := s.client.UploadStream(ctx, s.cfg.Bucket, objectKey(s.cfg.Prefix, key), r, nil)
	if err != nil {
		return errors.Wrapf(err, "upload azure blob %s", key)
	}
	return nil
}

func (s *azureStore) Download(ctx context.Context, key string, w io.Writer) error {
	resp, err := s.client.DownloadStream(ctx, s.cfg.Bucket, objectKey(s.cfg.Prefix, key), nil)
	if err != nil {
		return errors.Wrapf(err, "download azure blob %s", key)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return errors.Wrapf(err, "read azure blob %s", key)
	}
	return nil
}
