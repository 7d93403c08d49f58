package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	storage "github.com/supabase-community/storage-go"
	filestore "phone-cover-backend/internal/storage"
)

const listPageSize = 1000

// bucketAPI is the subset of the storage-go client the StorageClient uses.
type bucketAPI interface {
	UploadFile(bucketID, relativePath string, data io.Reader, fileOptions ...storage.FileOptions) (storage.FileUploadResponse, error)
	DownloadFile(bucketID, filePath string, urlOptions ...storage.UrlOptions) ([]byte, error)
	RemoveFile(bucketID string, paths []string) ([]storage.FileUploadResponse, error)
	ListFiles(bucketID, queryPath string, options storage.FileSearchOptions) ([]storage.FileObject, error)
}

// StorageClient keeps cover assets in a single Supabase Storage bucket and
// implements storage.FileStore.
type StorageClient struct {
	client  bucketAPI
	bucket  string
	baseURL string
}

var _ filestore.FileStore = (*StorageClient)(nil)

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) *StorageClient {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)
	return newStorageClient(client, bucket, baseURL)
}

func newStorageClient(client bucketAPI, bucket, baseURL string) *StorageClient {
	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}
}

func (s *StorageClient) ReadBytes(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	storagePath, err := filestore.CleanPath(p)
	if err != nil {
		return nil, err
	}

	data, err := s.client.DownloadFile(s.bucket, storagePath)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", filestore.ErrNotFound, storagePath)
		}
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return data, nil
}

// WriteBytes upserts the object; Supabase only publishes it once the upload completes.
func (s *StorageClient) WriteBytes(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	storagePath, err := filestore.CleanPath(p)
	if err != nil {
		return err
	}

	contentType := filestore.ContentType(storagePath)
	upsert := true
	_, err = s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

func (s *StorageClient) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	storagePath, err := filestore.CleanPath(p)
	if err != nil {
		return err
	}

	if _, err := s.client.RemoveFile(s.bucket, []string{storagePath}); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *StorageClient) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix, err := filestore.CleanPath(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for offset := 0; ; offset += listPageSize {
		files, err := s.client.ListFiles(s.bucket, prefix, storage.FileSearchOptions{
			Limit:  listPageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}
		for _, file := range files {
			// Folders come back without an id.
			if file.Id == "" || strings.HasPrefix(file.Name, ".") {
				continue
			}
			names = append(names, path.Base(file.Name))
		}
		if len(files) < listPageSize {
			break
		}
	}
	if names == nil {
		names = []string{}
	}
	sort.Strings(names)
	return names, nil
}

func (s *StorageClient) PublicURL(p string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, strings.TrimPrefix(p, "/"))
}

func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "404")
}
