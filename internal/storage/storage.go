package storage

import (
	"context"
	"io"
)

// Object is a blob handed to the store.
type Object struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Service keeps uploaded review photos in remote object storage.
type Service interface {
	// Put stores the object and returns the URL it can be fetched from.
	Put(ctx context.Context, obj Object) (string, error)
	Delete(ctx context.Context, key string) error
}
