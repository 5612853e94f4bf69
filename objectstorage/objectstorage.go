// Package objectstorage stores message attachment blobs in S3-compatible
// storage, zstd-compressed. The database only carries attachment metadata
// plus the object key written here.
package objectstorage

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/valyala/gozstd"

	"github.com/10srav/tasksaver/config"
)

// NewClient builds an S3 client from the object storage config.
func NewClient(cfg config.ObjectStorage) *s3.S3 {
	sess := session.Must(session.NewSession(&aws.Config{
		Region:   aws.String(cfg.Region),
		Endpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewChainCredentials([]credentials.Provider{
			&credentials.StaticProvider{
				Value: credentials.Value{
					AccessKeyID:     cfg.AccessKey,
					SecretAccessKey: cfg.SecretKey,
				},
			},
		}),
	}))
	return s3.New(sess)
}

// GenerateObjectKey returns a date-sharded key for an attachment:
// attachments/YYYY/MM/DD/UUID
func GenerateObjectKey() string {
	now := time.Now()
	return fmt.Sprintf("attachments/%04d/%02d/%02d/%s",
		now.Year(), now.Month(), now.Day(), uuid.New().String())
}

func ObjectExists(s3Client *s3.S3, bucket, key string) (bool, error) {
	resp, err := s3Client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key + ".zstd"),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchKey:
				return false, nil
			default:
				return false, err
			}
		}
	}
	return resp != nil, nil
}

// UploadObject compresses and stores an attachment blob.
func UploadObject(s3Client *s3.S3, bucket, key string, reader io.Reader) error {
	var buf bytes.Buffer
	zw := gozstd.NewWriter(&buf)
	if _, err := io.Copy(zw, reader); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	_, err := s3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key + ".zstd"),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/zstd"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s to bucket %s: %w", key, bucket, err)
	}
	return nil
}

// DownloadObject streams an attachment blob back, decompressing on the fly.
func DownloadObject(s3Client *s3.S3, bucket, key string) (io.ReadCloser, error) {
	resp, err := s3Client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key + ".zstd"),
	})
	if err != nil {
		return nil, err
	}

	zr := gozstd.NewReader(resp.Body)
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: zr,
		Closer: resp.Body,
	}, nil
}

func DeleteObject(s3Client *s3.S3, bucket, key string) error {
	_, err := s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key + ".zstd"),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s from bucket %s: %w", key, bucket, err)
	}
	return nil
}
