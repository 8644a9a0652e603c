package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type s3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive keeps raw push bodies as text objects keyed by
// <prefix>/<SN>/<table>/<yyyy>/<mm>/<dd>/<hhmmss>-<uuid>.txt.
type S3Archive struct {
	client s3API
	bucket string
	prefix string
	now    func() time.Time
}

func NewS3Archive(ctx context.Context, bucket, prefix string) (*S3Archive, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return newS3Archive(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func newS3Archive(client s3API, bucket, prefix string) *S3Archive {
	return &S3Archive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
	}
}

// ArchivePush stores one push body and returns its key.
func (a *S3Archive) ArchivePush(ctx context.Context, serialNumber, table string, body []byte) (string, error) {
	now := a.now().UTC()
	key := path.Join(a.prefix, serialNumber, table, now.Format("2006/01/02"),
		fmt.Sprintf("%s-%s.txt", now.Format("150405"), uuid.NewString()))
	if err := a.WriteFile(ctx, key, body); err != nil {
		return "", err
	}
	return key, nil
}

// ParseKey extracts the serial number and table from an archive key.
func (a *S3Archive) ParseKey(key string) (serialNumber, table string, ok bool) {
	rest := strings.TrimPrefix(key, a.prefix+"/")
	parts := strings.Split(rest, "/")
	if len(parts) != 6 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func (a *S3Archive) WriteFile(ctx context.Context, key string, body []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s to bucket %s: %w", key, a.bucket, err)
	}
	return nil
}

func (a *S3Archive) ReadFile(ctx context.Context, key string, outStream io.Writer) error {
	resp, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get object %s from bucket %s: %w", key, a.bucket, err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(outStream, resp.Body); err != nil {
		return fmt.Errorf("failed to copy object %s from bucket %s: %w", key, a.bucket, err)
	}
	return nil
}

// ListFiles returns every key under the archive prefix joined with sub.
func (a *S3Archive) ListFiles(ctx context.Context, sub string) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String(path.Join(a.prefix, sub) + "/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in bucket %s: %w", a.bucket, err)
		}

		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}

	return keys, nil
}
