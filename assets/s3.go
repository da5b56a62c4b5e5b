package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Source reads artifacts from S3 or compatible object stores. The artifact
// buckets are public, so requests are unsigned; no credentials are ever
// required or used.
//
// Location format: s3://bucket/key/path?region=us-west-2[&endpoint=...]
type S3Source struct {
	Log *slog.Logger
}

// Fetch streams the object to destPath.
func (s *S3Source) Fetch(ctx context.Context, rawURL, destPath string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid s3 location %q: %w", rawURL, err)
	}

	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	region := u.Query().Get("region")
	if region == "" {
		region = "us-east-1"
	}

	cfg := aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.AnonymousCredentials,
	}
	if endpoint := u.Query().Get("endpoint"); endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}

	sess, err := session.NewSession(&cfg)
	if err != nil {
		return fmt.Errorf("failed to create AWS session: %w", err)
	}

	result, err := s3.New(sess).GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("could not get s3://%s/%s: %w", bucket, key, err)
	}
	defer result.Body.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", destPath, err)
	}

	written, err := io.Copy(out, result.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("could not write s3 object to %s: %w", destPath, err)
	}

	s.Log.Debug("Fetched object from S3",
		slog.String("bucket", bucket),
		slog.String("key", key),
		slog.Int64("bytes", written))

	return nil
}

func (s *S3Source) Name() string {
	return "s3"
}
