package filesystem

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryS3 struct {
	objects map[string][]byte
}

func (m *memoryS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.objects[*in.Key] = b
	return &s3.PutObjectOutput{}, nil
}

func (m *memoryS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := m.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (m *memoryS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, *in.Prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	archive := newS3Archive(&memoryS3{objects: map[string][]byte{}}, "bucket", "/iclock/")
	archive.now = func() time.Time { return time.Date(2024, 1, 15, 8, 30, 5, 0, time.UTC) }

	body := []byte("1\t2024-01-15 08:30:00\t0\t1\t0\t0\t0")
	key, err := archive.ArchivePush(ctx, "SN001", "ATTLOG", body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "iclock/SN001/ATTLOG/2024/01/15/083005-"), key)

	sn, table, ok := archive.ParseKey(key)
	require.True(t, ok)
	assert.Equal(t, "SN001", sn)
	assert.Equal(t, "ATTLOG", table)

	keys, err := archive.ListFiles(ctx, "SN001")
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)

	var buf bytes.Buffer
	require.NoError(t, archive.ReadFile(ctx, key, &buf))
	assert.Equal(t, body, buf.Bytes())

	assert.Error(t, archive.ReadFile(ctx, "iclock/missing", &buf))
}

func TestParseKeyRejectsForeignKeys(t *testing.T) {
	archive := newS3Archive(&memoryS3{}, "bucket", "iclock")
	for _, key := range []string{"iclock/SN001/ATTLOG/x.txt", "other/SN001", "iclock//ATTLOG/2024/01/15/a.txt"} {
		_, _, ok := archive.ParseKey(key)
		assert.False(t, ok, key)
	}
}
