package remote

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

const (
	// deltaSuffix marks physically delta-compressed objects. The logical key
	// shown to users has the suffix stripped.
	deltaSuffix = ".delta"

	// originalSizeMetaKey is the user-metadata key carrying the
	// pre-compression size of a delta object.
	originalSizeMetaKey = "dg-original-size"
)

// S3Config holds what is needed to reach an S3-compatible endpoint directly.
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Fetcher lists objects straight from an S3-compatible endpoint, mapping
// delimiter listings onto the listing contract. S3 has no server-side listing
// cache, so Query.BypassCache is a no-op here.
type S3Fetcher struct {
	client *s3.Client
}

// NewS3Fetcher builds an S3-backed fetcher from static credentials.
func NewS3Fetcher(ctx context.Context, cfg *S3Config) (*S3Fetcher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Fetcher{client: client}, nil
}

// FetchObjects implements Fetcher over ListObjectsV2. The continuation token
// is the cursor; search and compression filtering happen here, before the
// page is returned, the same way the API side filters its listings.
func (f *S3Fetcher) FetchObjects(ctx context.Context, q Query) (*Page, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(q.Bucket),
		Delimiter: aws.String("/"),
	}
	if q.Prefix != "" {
		input.Prefix = aws.String(q.Prefix)
	}
	if q.Limit > 0 {
		input.MaxKeys = aws.Int32(int32(q.Limit))
	}
	if q.Cursor != "" {
		input.ContinuationToken = aws.String(q.Cursor)
	}

	result, err := f.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("list objects in %s: %w", q.Bucket, err)
	}

	search := strings.ToLower(q.Search)

	page := &Page{}
	for _, obj := range result.Contents {
		physicalKey := aws.ToString(obj.Key)
		item := ObjectItem{
			Key:           strings.TrimSuffix(physicalKey, deltaSuffix),
			Compressed:    strings.HasSuffix(physicalKey, deltaSuffix),
			StoredBytes:   aws.ToInt64(obj.Size),
			OriginalBytes: aws.ToInt64(obj.Size),
			Modified:      aws.ToTime(obj.LastModified),
		}
		if !matchesCompressed(item.Compressed, q.Compressed) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Key), search) {
			continue
		}
		if q.FetchMetadata && item.Compressed {
			if size, ok := f.originalSize(ctx, q.Bucket, physicalKey); ok {
				item.OriginalBytes = size
			}
		}
		page.Objects = append(page.Objects, item)
	}
	// S3 lists physical keys in ascending order, but stripping the suffix
	// can swap neighbors ("a.b" sorts after "a.delta" once the latter
	// becomes "a"), so the logical keys need their own sort.
	sortObjectsByKey(page.Objects)

	for _, cp := range result.CommonPrefixes {
		dir := aws.ToString(cp.Prefix)
		if search != "" && !strings.Contains(strings.ToLower(dir), search) {
			continue
		}
		page.CommonPrefixes = append(page.CommonPrefixes, dir)
	}

	if aws.ToBool(result.IsTruncated) {
		page.Cursor = aws.ToString(result.NextContinuationToken)
	}

	return page, nil
}

// originalSize reads the pre-compression size from object metadata. A missing
// or malformed value falls back to the stored size rather than failing the
// whole listing.
func (f *S3Fetcher) originalSize(ctx context.Context, bucket, physicalKey string) (int64, bool) {
	head, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(physicalKey),
	})
	if err != nil {
		logrus.Debugf("head %s/%s failed: %v", bucket, physicalKey, err)
		return 0, false
	}
	raw, ok := head.Metadata[originalSizeMetaKey]
	if !ok {
		return 0, false
	}
	size, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || size < 0 {
		logrus.Debugf("bad %s metadata on %s/%s: %q", originalSizeMetaKey, bucket, physicalKey, raw)
		return 0, false
	}
	return size, true
}

// sortObjectsByKey re-establishes ascending logical-key order within a page.
func sortObjectsByKey(items []ObjectItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
}

func matchesCompressed(compressed bool, filter CompressedFilter) bool {
	switch filter {
	case CompressedOnly:
		return compressed
	case CompressedNone:
		return !compressed
	default:
		return true
	}
}
