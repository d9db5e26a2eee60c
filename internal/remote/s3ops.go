package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

// ListBuckets returns every reachable bucket. Direct S3 has no stats service,
// so counts and sizes stay zero with Pending set.
func (f *S3Fetcher) ListBuckets(ctx context.Context) ([]BucketStats, error) {
	result, err := f.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}

	stats := make([]BucketStats, 0, len(result.Buckets))
	for _, b := range result.Buckets {
		stats = append(stats, BucketStats{
			Name:    aws.ToString(b.Name),
			Pending: true,
		})
	}
	return stats, nil
}

// ObjectMetadata heads the object under its logical key, trying the plain key
// first and the delta-suffixed physical key second.
func (f *S3Fetcher) ObjectMetadata(ctx context.Context, bucket, key string) (*ObjectDetail, error) {
	physicalKey, head, err := f.headEither(ctx, bucket, key)
	if err != nil {
		return nil, err
	}

	detail := &ObjectDetail{
		Key:           key,
		Compressed:    physicalKey != key,
		StoredBytes:   aws.ToInt64(head.ContentLength),
		OriginalBytes: aws.ToInt64(head.ContentLength),
		Modified:      aws.ToTime(head.LastModified),
		ContentType:   aws.ToString(head.ContentType),
	}
	if detail.Compressed {
		if size, ok := f.originalSize(ctx, bucket, physicalKey); ok {
			detail.OriginalBytes = size
		}
	}
	return detail, nil
}

// DeleteObject removes an object by logical key. Both physical candidates are
// deleted; S3 treats deleting an absent key as success.
func (f *S3Fetcher) DeleteObject(ctx context.Context, bucket, key string) error {
	for _, physicalKey := range []string{key, key + deltaSuffix} {
		_, err := f.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(physicalKey),
		})
		if err != nil {
			return fmt.Errorf("delete %s/%s: %w", bucket, physicalKey, err)
		}
	}
	return nil
}

// BulkDelete removes keys one by one, collecting per-key failures into the
// result the way the listing API reports them.
func (f *S3Fetcher) BulkDelete(ctx context.Context, bucket string, keys []string) (*BulkDeleteResult, error) {
	result := &BulkDeleteResult{TotalRequested: len(keys)}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := f.DeleteObject(ctx, bucket, key); err != nil {
			logrus.Warnf("bulk delete: %v", err)
			result.Errors = append(result.Errors, key)
			continue
		}
		result.Deleted = append(result.Deleted, key)
	}
	result.TotalDeleted = len(result.Deleted)
	result.TotalErrors = len(result.Errors)
	return result, nil
}

// DownloadURL presigns a GET for the physical key behind the logical one.
func (f *S3Fetcher) DownloadURL(ctx context.Context, bucket, key string, expiresIn time.Duration) (*PresignedURL, error) {
	physicalKey, _, err := f.headEither(ctx, bucket, key)
	if err != nil {
		return nil, err
	}

	presigner := s3.NewPresignClient(f.client)
	signed, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(physicalKey),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return nil, fmt.Errorf("presign %s/%s: %w", bucket, physicalKey, err)
	}

	return &PresignedURL{
		DownloadURL: signed.URL,
		ExpiresIn:   int(expiresIn.Seconds()),
		ExpiresAt:   time.Now().Add(expiresIn).Unix(),
	}, nil
}

// headEither resolves the physical key for a logical one: the plain key if it
// exists, otherwise the delta-suffixed variant.
func (f *S3Fetcher) headEither(ctx context.Context, bucket, key string) (string, *s3.HeadObjectOutput, error) {
	var lastErr error
	for _, physicalKey := range []string{key, key + deltaSuffix} {
		head, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(physicalKey),
		})
		if err == nil {
			return physicalKey, head, nil
		}
		var notFound *types.NotFound
		if !errors.As(err, &notFound) {
			return "", nil, fmt.Errorf("head %s/%s: %w", bucket, physicalKey, err)
		}
		lastErr = err
	}
	return "", nil, fmt.Errorf("object %s/%s not found: %w", bucket, key, lastErr)
}
