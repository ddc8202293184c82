package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pth-demo-orga/trusty-lib/interfaces"
)

// S3Backend implements a keyslot store using Amazon S3 or a compatible
// object store. One object per slot under the configured prefix.
type S3Backend struct {
	client      *s3.S3
	bucketName  string
	prefix      string
	log         *slog.Logger
	locationURI string
}

// NewS3Backend creates an S3 keyslot store. Credentials are optional for
// read access to public buckets; writes require them.
func NewS3Backend(bucketName, prefix, region, endpoint, accessKey, secretKey string, log *slog.Logger) (*S3Backend, error) {
	uri := fmt.Sprintf("s3://%s/%s?region=%s", bucketName, prefix, region)
	if endpoint != "" {
		uri += fmt.Sprintf("&endpoint=%s", endpoint)
	}

	cfg := aws.Config{
		Region: aws.String(region),
	}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
	if accessKey != "" && secretKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	}

	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Backend{
		client:      s3.New(sess),
		bucketName:  bucketName,
		prefix:      prefix,
		log:         log,
		locationURI: uri,
	}, nil
}

// Fetch retrieves a slot's object from S3.
func (b *S3Backend) Fetch(ctx context.Context, slot interfaces.KeyslotID) ([]byte, error) {
	start := time.Now()
	key := b.objectKey(slot)

	out, err := b.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound") {
			return nil, interfaces.ErrKeyslotNotFound
		}
		b.log.Error("Failed to fetch from S3",
			slog.String("key", key),
			slog.String("slot", slot.String()),
			"err", err)
		return nil, fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	b.log.Info("Successfully fetched keyslot from S3",
		slog.String("slot", slot.String()),
		slog.Duration("duration", time.Since(start)))
	return data, nil
}

// Store writes a slot's object to S3.
func (b *S3Backend) Store(ctx context.Context, slot interfaces.KeyslotID, material []byte) error {
	key := b.objectKey(slot)

	_, err := b.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(key),
		Body:   bytes.NewReader(material),
	})
	if err != nil {
		b.log.Error("Failed to store to S3",
			slog.String("key", key),
			slog.String("slot", slot.String()),
			"err", err)
		return fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	b.log.Info("Successfully stored keyslot in S3", slog.String("slot", slot.String()))
	return nil
}

// LocationURI returns the backend's identifying URI.
func (b *S3Backend) LocationURI() string {
	return b.locationURI
}

func (b *S3Backend) objectKey(slot interfaces.KeyslotID) string {
	return path.Join(b.prefix, "keyslots", slot.String())
}
