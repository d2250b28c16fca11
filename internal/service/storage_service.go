package service

import (
	"context"
	"fmt"
	"io"
	"language_gems_backend/internal/config"
	"language_gems_backend/internal/util"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider 导出文件的存储后端
type StorageProvider interface {
	Save(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
}

// NewStorageProvider 按配置选择存储后端，默认本地磁盘
func NewStorageProvider(cfg *config.StorageConfig) (StorageProvider, error) {
	switch cfg.Type {
	case util.StorageMinio:
		return newMinioProvider(cfg)
	default:
		return &localProvider{basePath: cfg.LocalPath}, nil
	}
}

type localProvider struct {
	basePath string
}

func (p *localProvider) Save(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	fullPath := filepath.Join(p.basePath, objectName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return "", err
	}
	return fullPath, nil
}

type minioProvider struct {
	client *minio.Client
	bucket string
}

func newMinioProvider(cfg *config.StorageConfig) (*minioProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds: credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
	})
	if err != nil {
		return nil, err
	}
	return &minioProvider{client: client, bucket: cfg.MinioBucket}, nil
}

func (p *minioProvider) Save(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return "", err
	}
	if !exists {
		if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", err
		}
	}

	_, err = p.client.PutObject(ctx, p.bucket, objectName, reader, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", p.bucket, objectName), nil
}
