package persistence

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"

	"github.com/apurvsibal/pycaret/pkg/errors"
)

// s3Store stores model bundles in an S3 bucket. Credentials come from the
// default AWS credential chain.
type s3Store struct {
	client *awss3.S3
	cfg    Config
}

func newS3Store(cfg Config) (*s3Store, error) {
	awsCfg := aws.NewConfig()
	if cfg.Region != "" {
		awsCfg = awsCfg.WithRegion(cfg.Region)
	}

	s, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, errors.Wrap(err, "new aws session")
	}

	return &s3Store{client: awss3.New(s), cfg: cfg}, nil
}

func (s *s3Store) Upload(ctx context.Context, key string, r io.Reader) error {
	_, err := s.client.PutObjectWithContext(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(objectKey(s.cfg.Prefix, key)),
		Body:   aws.ReadSeekCloser(r),
	})
	if err != nil {
		return errors.Wrapf(err, "upload s3 object %s", key)
	}
	return nil
}

func (s *s3Store) Download(ctx context.Context, key string, w io.Writer) error {
	resp, err := s.client.GetObjectWithContext(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(objectKey(s.cfg.Prefix, key)),
	})
	if err != nil {
		return errors.Wrapf(err, "get s3 object %s", key)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return errors.Wrapf(err, "read s3 object %s", key)
	}
	return nil
}
