package persistence

import (
	"context"
	"io"

	"cloud.google.com/go/storage"

	"github.com/apurvsibal/pycaret/pkg/errors"
)

// gcsStore stores model bundles in a Google Cloud Storage bucket.
// Credentials come from the ambient application default credentials.
type gcsStore struct {
	cfg Config
}

func newGCSStore(cfg Config) (*gcsStore, error) {
	return &gcsStore{cfg: cfg}, nil
}

func (s *gcsStore) Upload(ctx context.Context, key string, r io.Reader) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return errors.Wrap(err, "new gcs client")
	}
	defer client.Close()

	obj := client.Bucket(s.cfg.Bucket).Object(objectKey(s.cfg.Prefix, key))
	w := obj.NewWriter(ctx)
	w.ContentType = "application/octet-stream"

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return errors.Wrapf(err, "write gcs object %s", key)
	}
	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "close gcs object %s", key)
	}
	return nil
}

func (s *gcsStore) Download(ctx context.Context, key string, w io.Writer) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return errors.Wrap(err, "new gcs client")
	}
	defer client.Close()

	obj := client.Bucket(s.cfg.Bucket).Object(objectKey(s.cfg.Prefix, key))
	r, err := obj.NewReader(ctx)
	if err != nil {
		return errors.Wrapf(err, "open gcs object %s", key)
	}
	defer r.Close()

	if _, err := io.Copy(w, r); err != nil {
		return errors.Wrapf(err, "read gcs object %s", key)
	}
	return nil
}
