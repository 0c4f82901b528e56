package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/duolink/cotizador/config"
)

// s3Disk stores objects in an S3-compatible bucket. A custom endpoint
// switches the client to path-style addressing for MinIO and friends.
type s3Disk struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func newS3Disk() (*s3Disk, error) {
	bucket := config.StorageS3Bucket()
	if bucket == "" {
		return nil, fmt.Errorf("storage: S3_BUCKET is not configured")
	}
	region := config.StorageS3Region()

	loadOpts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if key, secret := config.StorageS3Key(), config.StorageS3Secret(); key != "" && secret != "" {
		loadOpts = append(loadOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, secret, ""),
		))
	}
	cfg, err := awscfg.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage: aws config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if endpoint := config.StorageS3Endpoint(); endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	baseURL := strings.TrimRight(config.StorageS3URL(), "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return &s3Disk{
		client:  s3.NewFromConfig(cfg, clientOpts...),
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

func (d *s3Disk) PutStream(path string, r io.Reader) error {
	// Buffer the body; the SDK needs a seekable reader to sign it.
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("storage: read upload: %w", err)
	}

	_, err = d.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("storage: s3 put %s: %w", path, err)
	}
	return nil
}

func (d *s3Disk) Delete(path string) error {
	_, err := d.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("storage: s3 delete %s: %w", path, err)
	}
	return nil
}

func (d *s3Disk) URL(path string) string {
	return d.baseURL + "/" + strings.TrimLeft(path, "/")
}
