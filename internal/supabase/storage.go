package supabase

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"

	"fm-configurator/internal/artifacts"
)

// StorageClient stores artifacts in a public Supabase bucket. It satisfies
// artifacts.Store.
type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
	prefix  string
	// publicBaseURL, when set, replaces the bucket's own public URL so
	// artifacts are fetched through this service's /uploads route.
	publicBaseURL string
}

func NewStorageClient(c *Client, bucket, prefix string) *StorageClient {
	return &StorageClient{
		client:  c.Supabase.Storage,
		bucket:  bucket,
		baseURL: strings.TrimRight(c.Config.SupabaseURL, "/"),
		prefix:  strings.Trim(prefix, "/"),
	}
}

func (s *StorageClient) WithPublicBaseURL(baseURL string) *StorageClient {
	s.publicBaseURL = baseURL
	return s
}

func (s *StorageClient) objectPath(filename string) string {
	if s.prefix == "" {
		return filename
	}
	return s.prefix + "/" + filename
}

func (s *StorageClient) Save(ctx context.Context, data []byte, mimeType string) (*artifacts.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, filename := artifacts.NewFilename(mimeType)
	storagePath := s.objectPath(filename)

	// Ids are fresh, so never overwrite.
	contentType := mimeType
	upsert := false
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return &artifacts.Artifact{
		ID:        id,
		Filename:  filename,
		MimeType:  mimeType,
		PublicURL: s.publicURL(filename, storagePath),
		Size:      int64(len(data)),
	}, nil
}

func (s *StorageClient) publicURL(filename, storagePath string) string {
	if s.publicBaseURL != "" {
		return artifacts.JoinURL(s.publicBaseURL, filename)
	}
	return s.GetPublicURL(storagePath)
}

func (s *StorageClient) GetPublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, storagePath)
}

func (s *StorageClient) DownloadFile(storagePath string) ([]byte, error) {
	data, err := s.client.DownloadFile(s.bucket, storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	return data, nil
}

// Download fetches an artifact by its {uuid}.{ext} filename.
func (s *StorageClient) Download(ctx context.Context, filename string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !artifacts.ValidName(filename) {
		return nil, artifacts.ErrInvalidName
	}
	return s.DownloadFile(s.objectPath(filename))
}

var _ artifacts.Store = (*StorageClient)(nil)
