package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	appconfig "church-backend/internal/config"
	"church-backend/internal/timeutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BackupService uploads visitor snapshots to an S3-compatible bucket
// (Cloudflare R2 in production)
type BackupService struct {
	cfg     *appconfig.Config
	reports *ReportService
}

func NewBackupService(cfg *appconfig.Config, reports *ReportService) *BackupService {
	return &BackupService{cfg: cfg, reports: reports}
}

func (s *BackupService) Enabled() bool {
	return s.cfg.Backup.AccessKey != "" && s.cfg.Backup.Bucket != ""
}

func (s *BackupService) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.Backup.AccessKey,
			s.cfg.Backup.SecretKey,
			"",
		)),
		awsconfig.WithRegion(s.cfg.Backup.Region),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.Backup.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Backup.Endpoint)
		}
	}), nil
}

// BackupVisitors exports the visitor set as CSV and uploads it under a
// timestamped key. Returns the object key.
func (s *BackupService) BackupVisitors(ctx context.Context) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("backup is not configured")
	}

	data, err := s.reports.GenerateVisitorsCSV(ctx)
	if err != nil {
		return "", fmt.Errorf("export visitors: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	client, err := s.client(ctx)
	if err != nil {
		return "", fmt.Errorf("configure backup client: %w", err)
	}

	key := fmt.Sprintf("visitors/visitors-%s.csv", timeutil.Now().Format("2006-01-02-150405"))
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Backup.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("upload backup: %w", err)
	}

	log.Printf("[Backup] Uploaded %s (%d bytes)", key, len(data))
	return key, nil
}
