package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStorage, error) {
	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("error conectando a MinIO: %w", err)
	}

	return &MinioStorage{
		client: minioClient,
		bucket: bucket,
	}, nil
}

// GetFile devuelve el flujo de datos del objeto.
func (s *MinioStorage) GetFile(ctx context.Context, objectName string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("error obteniendo el archivo %s: %w", objectName, err)
	}
	return obj, nil
}

// PutFile sube un objeto (avatares, imágenes de publicaciones).
func (s *MinioStorage) PutFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("error subiendo el archivo %s: %w", objectName, err)
	}
	return nil
}
