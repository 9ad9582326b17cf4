package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSStorage keeps objects in a JetStream object store bucket.
type NATSStorage struct {
	store   jetstream.ObjectStore
	baseURL string
}

// NewNATSStorage opens bucket, creating it when it does not exist yet.
func NewNATSStorage(ctx context.Context, nc *nats.Conn, bucket, baseURL string) (*NATSStorage, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	store, err := js.ObjectStore(ctx, bucket)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		store, err = js.CreateObjectStore(ctx, jetstream.ObjectStoreConfig{
			Bucket:      bucket,
			Description: "uploaded ID card document scans",
		})
	}
	if err != nil {
		return nil, fmt.Errorf("open object store %s: %w", bucket, err)
	}
	return &NATSStorage{store: store, baseURL: baseURL}, nil
}

func (s *NATSStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	key, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	meta := jetstream.ObjectMeta{
		Name:    key,
		Headers: nats.Header{"Content-Type": []string{contentType}},
	}
	if _, err := s.store.Put(ctx, meta, r); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.URL(key), nil
}

func (s *NATSStorage) Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	key, err := CleanKey(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	obj, err := s.store.Get(ctx, key)
	if errors.Is(err, jetstream.ErrObjectNotFound) {
		return nil, ObjectInfo{}, ErrNotFound
	}
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("get object %s: %w", key, err)
	}

	info := ObjectInfo{Key: key}
	if oi, err := obj.Info(); err == nil && oi != nil {
		info.Size = int64(oi.Size)
		if oi.Headers != nil {
			info.ContentType = oi.Headers.Get("Content-Type")
		}
	}
	return obj, info, nil
}

func (s *NATSStorage) Delete(ctx context.Context, key string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	err = s.store.Delete(ctx, key)
	if errors.Is(err, jetstream.ErrObjectNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *NATSStorage) URL(key string) string {
	return publicURL(s.baseURL, key)
}
