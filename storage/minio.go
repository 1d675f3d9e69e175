// Package storage archives generated payment reports to MinIO object
// storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mojtabanasehzadeh/music-distribution-service/config"
	"github.com/mojtabanasehzadeh/music-distribution-service/logger"
	"github.com/mojtabanasehzadeh/music-distribution-service/projection"
)

var (
	minioClient *minio.Client
	minioBucket string
)

// InitMinio initializes the MinIO client and ensures the report bucket
// exists.
func InitMinio(cfg *config.Config) error {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("failed to check report bucket: %w", err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion})
		if err != nil {
			return fmt.Errorf("failed to create report bucket: %w", err)
		}
		logger.Info("created report bucket", logger.String("bucket", cfg.MinioBucket))
	}

	minioClient = client
	minioBucket = cfg.MinioBucket
	return nil
}

// Enabled reports whether report archiving is available.
func Enabled() bool {
	return minioClient != nil
}

// ArchivePaymentReport uploads the report as JSON, keyed by artist and
// report id. Returns the object name.
func ArchivePaymentReport(ctx context.Context, report *projection.PaymentReport) (string, error) {
	if minioClient == nil {
		return "", fmt.Errorf("MinIO client not initialized")
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal payment report: %w", err)
	}

	objectName := fmt.Sprintf("payment-reports/%s/%s.json", report.ArtistID, report.ReportID)
	_, err = minioClient.PutObject(ctx, minioBucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload payment report: %w", err)
	}

	logger.Info("archived payment report",
		logger.String("object", objectName),
		logger.String("artistId", report.ArtistID.String()),
	)
	return objectName, nil
}
