package supabase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"

	storage "github.com/supabase-community/storage-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"phone-cover-backend/internal/logging"
	filestore "phone-cover-backend/internal/storage"
)

type fakeBucket struct {
	objects   map[string][]byte
	types     map[string]string
	failPut   bool
	listCalls []storage.FileSearchOptions
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeBucket) UploadFile(bucketID, relativePath string, data io.Reader, opts ...storage.FileOptions) (storage.FileUploadResponse, error) {
	if f.failPut {
		return storage.FileUploadResponse{}, errors.New("bucket unavailable")
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return storage.FileUploadResponse{}, err
	}
	f.objects[relativePath] = b
	if len(opts) > 0 && opts[0].ContentType != nil {
		f.types[relativePath] = *opts[0].ContentType
	}
	return storage.FileUploadResponse{}, nil
}

func (f *fakeBucket) DownloadFile(bucketID, filePath string, _ ...storage.UrlOptions) ([]byte, error) {
	b, ok := f.objects[filePath]
	if !ok {
		return nil, errors.New("Object not found")
	}
	return b, nil
}

func (f *fakeBucket) RemoveFile(bucketID string, paths []string) ([]storage.FileUploadResponse, error) {
	for _, p := range paths {
		delete(f.objects, p)
	}
	return nil, nil
}

func (f *fakeBucket) ListFiles(bucketID, queryPath string, opts storage.FileSearchOptions) ([]storage.FileObject, error) {
	f.listCalls = append(f.listCalls, opts)
	out := []storage.FileObject{{Name: "nested"}, {Name: ".emptyFolderPlaceholder", Id: "x"}}
	var keys []string
	for p := range f.objects {
		if strings.HasPrefix(p, queryPath+"/") {
			keys = append(keys, p)
		}
	}
	sort.Strings(keys)
	for _, p := range keys {
		out = append(out, storage.FileObject{Name: strings.TrimPrefix(p, queryPath+"/"), Id: p})
	}

	if opts.Offset >= len(out) {
		return nil, nil
	}
	out = out[opts.Offset:]
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func TestStorageClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	bucket := newFakeBucket()
	s := newStorageClient(bucket, "covers", "https://proj.supabase.co")

	require.NoError(t, s.WriteBytes(ctx, "generated_covers/b.png", []byte("b")))
	require.NoError(t, s.WriteBytes(ctx, "generated_covers/a.png", []byte("a")))
	assert.Equal(t, "image/png", bucket.types["generated_covers/a.png"])

	data, err := s.ReadBytes(ctx, "generated_covers/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), data)

	names, err := s.List(ctx, "generated_covers")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png"}, names)

	require.NoError(t, s.Delete(ctx, "generated_covers/a.png"))
	_, err = s.ReadBytes(ctx, "generated_covers/a.png")
	assert.ErrorIs(t, err, filestore.ErrNotFound)
}

func TestStorageClient_ListPages(t *testing.T) {
	ctx := context.Background()
	bucket := newFakeBucket()
	s := newStorageClient(bucket, "covers", "https://proj.supabase.co")

	const total = listPageSize + 5
	for i := 0; i < total; i++ {
		bucket.objects[fmt.Sprintf("generated_covers/cover_%04d.png", i)] = []byte("x")
	}

	names, err := s.List(ctx, "generated_covers")
	require.NoError(t, err)
	assert.Len(t, names, total)
	assert.Equal(t, "cover_0000.png", names[0])
	assert.Equal(t, fmt.Sprintf("cover_%04d.png", total-1), names[total-1])

	require.Len(t, bucket.listCalls, 2)
	assert.Equal(t, 0, bucket.listCalls[0].Offset)
	assert.Equal(t, listPageSize, bucket.listCalls[1].Offset)
}

func TestStorageClient_ListEmpty(t *testing.T) {
	s := newStorageClient(newFakeBucket(), "covers", "https://proj.supabase.co")
	names, err := s.List(context.Background(), "generated_covers")
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestStorageClient_WriteError(t *testing.T) {
	bucket := newFakeBucket()
	bucket.failPut = true
	s := newStorageClient(bucket, "covers", "https://proj.supabase.co")

	err := s.WriteBytes(context.Background(), "uploads/x.jpg", []byte("x"))
	require.Error(t, err)
	assert.Empty(t, bucket.objects)
}

func TestStorageClient_PublicURL(t *testing.T) {
	s := NewStorageClient("https://proj.supabase.co/", "key", "covers")
	assert.Equal(t,
		"https://proj.supabase.co/storage/v1/object/public/covers/generated_covers/x.png",
		s.PublicURL("generated_covers/x.png"))
}

func TestStorageClient_RejectsEscapes(t *testing.T) {
	s := newStorageClient(newFakeBucket(), "covers", "https://proj.supabase.co")
	_, err := s.ReadBytes(context.Background(), "../secret")
	assert.ErrorIs(t, err, filestore.ErrInvalidPath)
}

type recordingInserter struct {
	table string
	rows  []any
	err   error
}

func (r *recordingInserter) Insert(table string, row any) error {
	r.table = table
	r.rows = append(r.rows, row)
	return r.err
}

func TestEventPublisher_Publish(t *testing.T) {
	ins := &recordingInserter{}
	pub := newEventPublisher(ins, "cover_events", logging.Discard())

	payload := CoverGeneratedPayload("iPhone 15", "generated_cover_iPhone_15_20240501_101112.png", "http://x")
	require.NoError(t, pub.PublishEvent(context.Background(), EventCoverGenerated, payload))

	assert.Equal(t, "cover_events", ins.table)
	require.Len(t, ins.rows, 1)
	row := ins.rows[0].(eventRow)
	assert.Equal(t, EventCoverGenerated, row.Event)
	assert.Equal(t, "iPhone 15", row.Payload["cover_model"])
}

func TestEventPublisher_Error(t *testing.T) {
	ins := &recordingInserter{err: errors.New("rls denied")}
	pub := newEventPublisher(ins, "cover_events", logging.Discard())

	err := pub.PublishEvent(context.Background(), EventCoverFailed, CoverFailedPayload("Pixel 8", "boom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EventCoverFailed)
}
