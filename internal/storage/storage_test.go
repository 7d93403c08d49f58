package storage_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"phone-cover-backend/internal/storage"
)

func TestCleanPath(t *testing.T) {
	ok := map[string]string{
		"generated/a.png":     "generated/a.png",
		"uploads//x/../y.jpg": "uploads/y.jpg",
		`templates\t.png`:     "templates/t.png",
	}
	for in, want := range ok {
		got, err := storage.CleanPath(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, bad := range []string{"", "/etc/passwd", "..", "../secret", "a/../../b", "."} {
		_, err := storage.CleanPath(bad)
		assert.ErrorIs(t, err, storage.ErrInvalidPath, bad)
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", storage.ContentType("a/b.PNG"))
	assert.Equal(t, "image/jpeg", storage.ContentType("x.jpeg"))
	assert.Equal(t, "application/octet-stream", storage.ContentType("x"))
}

func TestLocalStore_WriteReadDelete(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewLocalStore(t.TempDir(), "http://localhost:8080/")
	require.NoError(t, err)

	require.NoError(t, s.WriteBytes(ctx, "generated/cover.png", []byte("png")))

	data, err := s.ReadBytes(ctx, "generated/cover.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	require.NoError(t, s.Delete(ctx, "generated/cover.png"))
	_, err = s.ReadBytes(ctx, "generated/cover.png")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "generated/cover.png"), storage.ErrNotFound)
}

func TestLocalStore_WriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := storage.NewLocalStore(root, "")
	require.NoError(t, err)

	require.NoError(t, s.WriteBytes(ctx, "generated/a.png", []byte("1")))
	require.NoError(t, s.WriteBytes(ctx, "generated/a.png", []byte("2")))

	entries, err := os.ReadDir(filepath.Join(root, "generated"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.png", entries[0].Name())
}

func TestLocalStore_ListSkipsHiddenAndDirs(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := storage.NewLocalStore(root, "")
	require.NoError(t, err)

	require.NoError(t, s.WriteBytes(ctx, "generated/b.png", []byte("b")))
	require.NoError(t, s.WriteBytes(ctx, "generated/a.png", []byte("a")))
	require.NoError(t, s.WriteBytes(ctx, "generated/nested/c.png", []byte("c")))
	require.NoError(t, os.WriteFile(filepath.Join(root, "generated", ".tmp-123"), []byte("x"), 0o644))

	names, err := s.List(ctx, "generated")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png"}, names)

	names, err = s.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_RejectsEscapes(t *testing.T) {
	s, err := storage.NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)
	_, err = s.ReadBytes(context.Background(), "../outside.png")
	assert.ErrorIs(t, err, storage.ErrInvalidPath)
	assert.ErrorIs(t, s.WriteBytes(context.Background(), "/abs.png", nil), storage.ErrInvalidPath)
}

func TestLocalStore_PublicURL(t *testing.T) {
	s, err := storage.NewLocalStore(t.TempDir(), "http://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/files/generated/my%20cover.png", s.PublicURL("generated/my cover.png"))
}

func TestLocalStore_CanceledContext(t *testing.T) {
	s, err := storage.NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.WriteBytes(ctx, "a.png", nil), context.Canceled)
}

// fakeS3 keeps objects in memory.
type fakeS3 struct {
	objects map[string][]byte
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	prefix := aws.ToString(in.Prefix)
	out := &s3.ListObjectsV2Output{}
	for k := range f.objects {
		rest, ok := strings.CutPrefix(k, prefix)
		if !ok || strings.Contains(rest, "/") {
			continue
		}
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestS3Store_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	s := storage.NewS3Store(fake, storage.S3Options{Endpoint: "http://127.0.0.1:9000/", Bucket: "covers"})

	require.NoError(t, s.WriteBytes(ctx, "generated/b.png", []byte("b")))
	require.NoError(t, s.WriteBytes(ctx, "generated/a.png", []byte("a")))
	require.NoError(t, s.WriteBytes(ctx, "generated/deep/c.png", []byte("c")))

	data, err := s.ReadBytes(ctx, "generated/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), data)

	names, err := s.List(ctx, "generated")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png"}, names)

	require.NoError(t, s.Delete(ctx, "generated/a.png"))
	_, err = s.ReadBytes(ctx, "generated/a.png")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.Equal(t, "http://127.0.0.1:9000/covers/generated/b.png", s.PublicURL("generated/b.png"))
}

func TestS3Store_WriteError(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = assert.AnError
	s := storage.NewS3Store(fake, storage.S3Options{Bucket: "covers", PublicURL: "https://cdn.example.com"})

	err := s.WriteBytes(context.Background(), "generated/a.png", []byte("a"))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "https://cdn.example.com/generated/a.png", s.PublicURL("generated/a.png"))
}
