package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/sirupsen/logrus"
)

var ErrUnsupportedImageType = errors.New("unsupported image type")

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageUpload is a profile image received from a multipart form
type ImageUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

type ImageStorage interface {
	// Upload stores the image under folder and returns its public URL
	Upload(ctx context.Context, folder string, image ImageUpload) (string, error)
}

type minioImageStorage struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	log           *logrus.Logger
}

func NewMinIOImageStorage(client *minio.Client, bucket, publicBaseURL string, log *logrus.Logger) ImageStorage {
	return &minioImageStorage{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           log,
	}
}

func (s *minioImageStorage) Upload(ctx context.Context, folder string, image ImageUpload) (string, error) {
	ext, ok := imageExtensions[image.ContentType]
	if !ok {
		return "", ErrUnsupportedImageType
	}

	objectName := path.Join(folder, uuid.NewString()+ext)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, image.Reader, image.Size, minio.PutObjectOptions{
		ContentType: image.ContentType,
	})
	if err != nil {
		s.log.Warnf("Failed to upload image %s: %+v", objectName, err)
		return "", fmt.Errorf("upload image %s: %w", objectName, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, objectName), nil
}
