// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package backup

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tomtom215/f1telemetry/internal/config"
)

// Manager uploads the raw capture file to S3 on a schedule (see
// internal/schedule.Scheduler.RegisterBackupUpload) and expires objects
// past cfg.Retention.
type Manager struct {
	cfg        config.BackupConfig
	sourcePath string
	client     *s3.Client
}

// NewManager builds a Manager against cfg.Bucket, uploading sourcePath (the
// feed recorder's raw capture file) under cfg.Prefix. It returns an error
// only if AWS credential/region resolution fails; callers are expected to
// check cfg.Enabled themselves before starting the upload schedule.
func NewManager(cfg config.BackupConfig, sourcePath string) (*Manager, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("backup: load AWS config: %w", err)
	}
	return &Manager{
		cfg:        cfg,
		sourcePath: sourcePath,
		client:     s3.NewFromConfig(awsCfg),
	}, nil
}
