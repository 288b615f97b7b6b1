package config

import (
	"context"
	"fmt"

	"nefllix/src/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	MinioClient *minio.Client
	BucketName  string
)

// ConnectMinio creates the object storage client and makes sure the bucket exists.
func ConnectMinio(ctx context.Context) (*minio.Client, error) {
	endpoint := GetEnv("MINIO_ENDPOINT", "localhost:9000")
	BucketName = GetEnv("MINIO_BUCKET", "nefllix-media")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(GetEnv("MINIO_ACCESS_KEY", ""), GetEnv("MINIO_SECRET_KEY", ""), ""),
		Secure: GetEnvBool("MINIO_USE_SSL", false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", BucketName, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", BucketName, err)
		}
		logger.Info("[Minio] created bucket", "bucket", BucketName)
	}

	MinioClient = client
	logger.Info("[Minio] connected", "endpoint", endpoint, "bucket", BucketName)
	return client, nil
}
