package storage

import (
	"bytes"
	"context"
	"fmt"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

type minioEvidenceStorage struct {
	MinioClient *minio.Client
	BucketName  string
}

func NewMinioEvidenceStorage(minioClient *minio.Client, bucketName string) contracts.EvidenceStorage {
	return &minioEvidenceStorage{
		MinioClient: minioClient,
		BucketName:  bucketName,
	}
}

// Upload stores the file under disputes/<disputeID>/ and returns its object key.
func (m *minioEvidenceStorage) Upload(ctx context.Context, disputeID string, file models.EvidenceFile) (string, error) {
	objectKey := fmt.Sprintf("disputes/%s/%s-%s", disputeID, uuid.NewString(), path.Base(file.FileName))
	_, err := m.MinioClient.PutObject(ctx, m.BucketName, objectKey, bytes.NewReader(file.Content), int64(len(file.Content)), minio.PutObjectOptions{
		ContentType: file.ContentType,
	})
	if err != nil {
		return "", exceptions.ErrMinioCreateObject(err, m.BucketName)
	}
	return objectKey, nil
}

func (m *minioEvidenceStorage) PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	presigned, err := m.MinioClient.PresignedGetObject(ctx, m.BucketName, objectKey, expiry, url.Values{})
	if err != nil {
		return "", exceptions.ErrMinioPresignObject(err, m.BucketName)
	}
	return presigned.String(), nil
}
