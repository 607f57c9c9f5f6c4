package reader

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectConfig holds the S3-compatible endpoint settings for an ObjectLoader.
type ObjectConfig struct {
	Endpoint  string // e.g. "localhost:9000"
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Prefix    string // prepended to "<table>.csv"
}

// objectGetter fetches an object body. *minio.Client satisfies it through
// minioGetter.
type objectGetter interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

type minioGetter struct {
	mc *minio.Client
}

func (g minioGetter) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := g.mc.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; Stat surfaces a missing key before reading.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, err
	}
	return obj, nil
}

// ObjectLoader loads CSV tables from a bucket. Table t is read from the
// object <Prefix>t.csv.
type ObjectLoader struct {
	getter objectGetter
	bucket string
	prefix string
}

// NewObjectLoader connects to the endpoint in cfg
func NewObjectLoader(cfg ObjectConfig) (*ObjectLoader, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("object storage endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("object storage bucket is required")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return newObjectLoader(minioGetter{mc: mc}, cfg.Bucket, cfg.Prefix), nil
}

func newObjectLoader(g objectGetter, bucket, prefix string) *ObjectLoader {
	return &ObjectLoader{getter: g, bucket: bucket, prefix: prefix}
}

// Key returns the object key backing table
func (l *ObjectLoader) Key(table string) string {
	return l.prefix + table + "." + formatCSV
}

// Load reads every row of table from the bucket
func (l *ObjectLoader) Load(ctx context.Context, table string) ([]map[string]interface{}, error) {
	if err := ValidateTableName(table); err != nil {
		return nil, &LoadError{Table: table, Err: err}
	}

	key := l.Key(table)
	body, err := l.getter.GetObject(ctx, l.bucket, key)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			err = fmt.Errorf("%w: s3://%s/%s", ErrTableNotFound, l.bucket, key)
		}
		return nil, &LoadError{Table: table, Err: err}
	}
	defer func() { _ = body.Close() }()

	rows, err := ReadCSV(body)
	if err != nil {
		return nil, &LoadError{Table: table, Err: err}
	}
	return rows, nil
}
