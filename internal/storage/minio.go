package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// objectPrefix is the top-level segment of every stored key.
const objectPrefix = "audio"

// MinioStorage implements Storage using a MinIO (or any S3-compatible) backend.
// To switch providers, change STORAGE_ENDPOINT and credentials — no code
// changes are needed for any S3-compatible store.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage creates a MinIO client, ensures the bucket exists, and
// returns a ready-to-use MinioStorage. An empty access key selects the
// ambient credential chain (IAM role / AWS env variables) instead of
// static credentials. An empty bucket name is a configuration error.
func NewMinioStorage(endpoint, accessKey, secretKey, bucket, region string, useSSL bool) (*MinioStorage, error) {
	if bucket == "" {
		return nil, errors.New("storage bucket is not configured")
	}

	creds := credentials.NewIAM("")
	if accessKey != "" {
		creds = credentials.NewStaticV4(accessKey, secretKey, "")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		log.Printf("storage: created bucket %q", bucket)
	}

	return &MinioStorage{client: client, bucket: bucket}, nil
}

// Store uploads the file at localPath under the caller's namespace and
// returns the s3:// location of the stored object.
func (s *MinioStorage) Store(ctx context.Context, localPath, namespace, name string) (string, error) {
	key := ObjectKey(namespace, name)

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("put object %q: %w", key, err)
	}

	return Location(s.bucket, key), nil
}

// ObjectKey returns the caller-namespaced key for a stored file,
// e.g. "audio/u1/clip.wav".
func ObjectKey(namespace, name string) string {
	return path.Join(objectPrefix, namespace, name)
}

// Location returns the stable s3:// locator for a key within a bucket.
func Location(bucket, key string) string {
	return "s3://" + bucket + "/" + key
}
