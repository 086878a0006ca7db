package imagestore

import (
	"context"
	"io"
)

// Store persists uploaded point images. Save generates a collision-resistant
// key from the original filename's extension; callers reference the image by
// that key afterwards.
type Store interface {
	Save(ctx context.Context, originalName, mimeType string, r io.Reader) (key string, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}
