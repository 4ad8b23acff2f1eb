package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store stores photo objects in a single S3 (or MinIO-compatible) bucket.
// Keys map to object keys directly.
type S3Store struct {
	client *s3.Client
	bucket string
	region string
	base   *url.URL // set when a custom endpoint is configured
}

// S3Config holds explicit construction parameters.
type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string // optional; enables a custom endpoint (e.g. MinIO)
	PathStyle bool
}

// NewS3 creates an S3-backed photo store. Credentials come from the default
// AWS chain (env, shared config, instance role).
func NewS3(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	var base *url.URL
	if cfg.Endpoint != "" {
		if u, err := url.Parse(cfg.Endpoint); err == nil {
			base = u
		}
	}
	return &S3Store{client: client, bucket: cfg.Bucket, region: region, base: base}, nil
}

// Bucket returns the default bucket objects are written to.
func (s *S3Store) Bucket() string { return s.bucket }

// ObjectURL returns the public URL for a key. Virtual-hosted style for real
// S3, path style under a custom endpoint.
func (s *S3Store) ObjectURL(key string) string {
	if s.base != nil {
		return strings.TrimRight(s.base.String(), "/") + "/" + s.bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// Resolve maps a URL previously issued by ObjectURL back to its (bucket,
// key) pair. Path-style URLs under the configured endpoint carry the bucket
// as the leading path segment; anything else resolves like a virtual-hosted
// URL via ParseObjectURL.
func (s *S3Store) Resolve(raw string) (bucket, key string) {
	if s.base != nil {
		prefix := strings.TrimRight(s.base.String(), "/") + "/"
		if rest, ok := strings.CutPrefix(raw, prefix); ok {
			bucket, key, _ = strings.Cut(rest, "/")
			return bucket, key
		}
	}
	return ParseObjectURL(raw)
}

// Put uploads an object and returns its metadata, including the URL clients
// store as a photo reference.
func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	input := &s3.PutObjectInput{Bucket: &s.bucket, Key: &key, Body: r}
	if opts.ContentType != "" {
		input.ContentType = &opts.ContentType
	}
	if len(opts.Metadata) > 0 {
		input.Metadata = opts.Metadata
	}
	out, err := s.client.PutObject(ctx, input)
	if err != nil {
		return Info{}, fmt.Errorf("put object %s: %w", key, err)
	}
	info := Info{Key: key, ContentType: opts.ContentType, URL: s.ObjectURL(key)}
	if out.ETag != nil {
		info.ETag = strings.Trim(*out.ETag, `"`)
	}
	return info, nil
}

// Delete removes an object. An empty bucket means the store's default. S3
// deletes are idempotent, so a missing object still reports success.
func (s *S3Store) Delete(ctx context.Context, bucket, key string) (bool, error) {
	if bucket == "" {
		bucket = s.bucket
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &bucket, Key: &key}); err != nil {
		return false, fmt.Errorf("delete object %s/%s: %w", bucket, key, err)
	}
	return true, nil
}
