package kvstore

import (
	"context"
	"fmt"
	"strings"
)

// Store is a flat string-keyed store of bool and string values.
type Store interface {
	// Bool returns the value at key, or def when it is absent or not a bool.
	Bool(ctx context.Context, key string, def bool) (bool, error)
	// String returns the value at key, or def when it is absent or not a string.
	String(ctx context.Context, key string, def string) (string, error)
	// Edit starts a batch of writes that takes effect on Apply.
	Edit() Editor
}

// Editor batches writes against a Store.
type Editor interface {
	PutBool(key string, value bool) Editor
	PutString(key string, value string) Editor
	Apply(ctx context.Context) error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
)

// Options select and configure a backend.
type Options struct {
	Backend  Backend
	Dir      string // file backend
	RedisURL string // redis backend
}

// Open returns the store for namespace using the configured backend.
func Open(ctx context.Context, opts Options, namespace string) (Store, error) {
	if strings.TrimSpace(namespace) == "" {
		return nil, fmt.Errorf("namespace is empty")
	}
	switch opts.Backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile, "":
		return OpenFile(opts.Dir, namespace)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisURL, namespace)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

type write struct {
	key   string
	value any
}

type batch struct {
	writes []write
	commit func(ctx context.Context, writes []write) error
}

func (b *batch) PutBool(key string, value bool) Editor {
	b.writes = append(b.writes, write{key: key, value: value})
	return b
}

func (b *batch) PutString(key string, value string) Editor {
	b.writes = append(b.writes, write{key: key, value: value})
	return b
}

func (b *batch) Apply(ctx context.Context) error {
	if len(b.writes) == 0 {
		return nil
	}
	writes := b.writes
	b.writes = nil
	return b.commit(ctx, writes)
}
