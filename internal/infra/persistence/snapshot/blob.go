package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"crmcore/internal/infra/blob"
)

// BlobBackend stores all buckets as one JSON object in a blob bucket.
type BlobBackend struct {
	bucket blob.Bucket
	key    string
}

// NewBlobBackend persists under key in bucket.
func NewBlobBackend(bucket blob.Bucket, key string) (*BlobBackend, error) {
	if bucket == nil {
		return nil, errors.New("blob bucket is required")
	}
	if key == "" {
		key = "crm"
	}
	return &BlobBackend{bucket: bucket, key: key + ".json"}, nil
}

func (b *BlobBackend) Name() string { return "blob-" + string(b.bucket.Driver()) }

// Key returns the object key holding the snapshot.
func (b *BlobBackend) Key() string { return b.key }

func (b *BlobBackend) Load(ctx context.Context) (Buckets, error) {
	_, rc, err := b.bucket.Get(ctx, b.key)
	if errors.Is(err, blob.ErrNotFound) {
		return Buckets{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", b.key, err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.key, err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", b.key, err)
	}
	out := make(Buckets, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out, nil
}

func (b *BlobBackend) Save(ctx context.Context, buckets Buckets) error {
	doc := make(map[string]json.RawMessage, len(buckets))
	for k, v := range buckets {
		doc[k] = v
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := b.bucket.Put(ctx, b.key, bytes.NewReader(data), blob.PutOptions{ContentType: "application/json"}); err != nil {
		return fmt.Errorf("put %s: %w", b.key, err)
	}
	return nil
}

func (b *BlobBackend) Close() error { return nil }
