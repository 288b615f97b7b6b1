package files

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"nefllix/src/config"

	"github.com/minio/minio-go/v7"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the slice of object storage the media services need.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

var (
	storeMu       sync.RWMutex
	storeOverride ObjectStore
)

// SetStore replaces the MinIO-backed store. Passing nil restores it.
func SetStore(s ObjectStore) {
	storeMu.Lock()
	defer storeMu.Unlock()
	storeOverride = s
}

func store() (ObjectStore, error) {
	storeMu.RLock()
	defer storeMu.RUnlock()
	if storeOverride != nil {
		return storeOverride, nil
	}
	if config.MinioClient == nil {
		return nil, errors.New("object storage is not configured")
	}
	return minioStore{client: config.MinioClient, bucket: config.BucketName}, nil
}

type minioStore struct {
	client *minio.Client
	bucket string
}

func isNoSuchKey(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

func (s minioStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", err
	}
	defer obj.Close()

	stat, err := obj.Stat()
	if err != nil {
		if isNoSuchKey(err) {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", err
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", err
	}
	return data, stat.ContentType, nil
}

func (s minioStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNoSuchKey(err) {
		return false, nil
	}
	return false, err
}

func (s minioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

type memObject struct {
	data        []byte
	contentType string
}

// MemoryStore keeps objects in memory. It backs tests and local runs
// without MinIO.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]memObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: map[string]memObject{}}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", ErrObjectNotFound
	}
	return bytes.Clone(obj.data), obj.contentType, nil
}

func (m *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memObject{data: data, contentType: contentType}
	return nil
}
