// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/f1telemetry

package backup

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Upload reads the current capture file and puts it to S3 under a
// timestamped key, so concurrent uploads and restarts never collide or
// overwrite a previous snapshot.
func (m *Manager) Upload(ctx context.Context) (Object, error) {
	if !m.cfg.Enabled {
		return Object{}, fmt.Errorf("backup: uploads are disabled")
	}

	data, err := os.ReadFile(m.sourcePath)
	if err != nil {
		return Object{}, fmt.Errorf("backup: read capture file %s: %w", m.sourcePath, err)
	}

	now := time.Now().UTC()
	key := captureKey(m.cfg.Prefix, now)

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.cfg.Bucket),
		Key:         aws.String(key),
		Body:        newReader(data),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return Object{}, fmt.Errorf("backup: put object %q: %w", key, err)
	}

	return Object{Key: key, Size: int64(len(data)), LastModified: now}, nil
}

// ListObjects returns uploaded snapshots under cfg.Prefix, optionally
// filtered and capped by opts.
func (m *Manager) ListObjects(ctx context.Context, opts ListOptions) ([]Object, error) {
	var objects []Object
	paginator := s3.NewListObjectsV2Paginator(m.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.cfg.Bucket),
		Prefix: aws.String(m.cfg.Prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("backup: list objects: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil || obj.LastModified == nil {
				continue
			}
			object := Object{Key: *obj.Key, Size: aws.ToInt64(obj.Size), LastModified: *obj.LastModified}
			if !matchesListOptions(object, opts) {
				continue
			}
			objects = append(objects, object)
			if opts.Limit > 0 && len(objects) >= opts.Limit {
				return objects, nil
			}
		}
	}
	return objects, nil
}

// DeleteObject removes a single uploaded snapshot by key.
func (m *Manager) DeleteObject(ctx context.Context, key string) error {
	_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("backup: delete object %q: %w", key, err)
	}
	return nil
}

// captureKey derives an object key from the upload prefix and timestamp,
// nested by date so a bucket listing stays browsable as snapshots pile up.
func captureKey(prefix string, ts time.Time) string {
	return path.Join(prefix, ts.Format("2006/01/02"), ts.Format("20060102-150405")+".jsonl")
}

// matchesListOptions reports whether obj satisfies opts.Before.
func matchesListOptions(obj Object, opts ListOptions) bool {
	if !opts.Before.IsZero() && !obj.LastModified.Before(opts.Before) {
		return false
	}
	return true
}
