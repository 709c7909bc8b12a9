// Package attachment issues time-limited signed URLs for attachment objects.
package attachment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/todovault/todovault"
)

// PresignAPI is the subset of the S3 presign client the issuer uses.
type PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3LinkIssuer signs upload and download URLs against a single bucket.
type S3LinkIssuer struct {
	presign PresignAPI
	bucket  string
}

var _ todovault.LinkIssuer = (*S3LinkIssuer)(nil)

// NewS3LinkIssuer creates a link issuer over an existing presign client.
func NewS3LinkIssuer(presign PresignAPI, bucket string) (*S3LinkIssuer, error) {
	if presign == nil {
		return nil, errors.New("new link issuer: presign client is required")
	}
	if bucket == "" {
		return nil, errors.New("new link issuer: bucket is required")
	}

	return &S3LinkIssuer{presign: presign, bucket: bucket}, nil
}

// ClientConfig holds the settings for building an S3 presign client.
type ClientConfig struct {
	// Region is the AWS region of the bucket
	Region string `mapstructure:"region"`
	// Endpoint overrides the S3 endpoint (local development, or an
	// S3-compatible store)
	Endpoint string `mapstructure:"endpoint"`
	// AccessKey and SecretKey provide static credentials; when empty the
	// default credential chain is used
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// NewPresignClient builds an S3 presign client from the given settings.
func NewPresignClient(ctx context.Context, cfg ClientConfig) (*s3.PresignClient, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return s3.NewPresignClient(client), nil
}

// UploadURL returns a signed URL granting a PUT on the object key.
func (i *S3LinkIssuer) UploadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := i.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(i.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign upload %s: %w", key, err)
	}

	return req.URL, nil
}

// DownloadURL returns a signed URL granting a GET on the object key.
func (i *S3LinkIssuer) DownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := i.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(i.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign download %s: %w", key, err)
	}

	return req.URL, nil
}
