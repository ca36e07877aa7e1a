package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"forummini/pkg/storage"
	"forummini/pkg/store"
)

// Storage drivers accepted by Config.StorageDriver.
const (
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMinio    = "minio"
)

// Config holds runtime configuration for the core application.
type Config struct {
	StorageDriver  string
	DataDir        string
	DatabaseURL    string
	RedisAddr      string
	RedisPassword  string
	RedisKeyPrefix string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// Backend overrides StorageDriver when set. The caller keeps ownership.
	Backend  store.Backend
	Observer store.Observer
}

// App composes the three repositories into forum operations and enforces
// the cross-entity rules the repositories know nothing about.
type App struct {
	store       *store.Store
	backend     store.Backend
	ownsBackend bool

	// usersMu serializes the username check-then-write.
	usersMu sync.Mutex
}

// New opens the configured backend and creates any missing collection document.
func New(ctx context.Context, cfg Config) (*App, error) {
	backend := cfg.Backend
	owns := false
	if backend == nil {
		var err error
		backend, err = openBackend(cfg)
		if err != nil {
			return nil, err
		}
		owns = true
	}

	var opts []store.Option
	if cfg.Observer != nil {
		opts = append(opts, store.WithObserver(cfg.Observer))
	}
	st, err := store.New(ctx, backend, opts...)
	if err != nil {
		if owns {
			closeBackend(backend)
		}
		return nil, fmt.Errorf("init store: %w", err)
	}
	return &App{store: st, backend: backend, ownsBackend: owns}, nil
}

func openBackend(cfg Config) (store.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.StorageDriver)) {
	case "", DriverFile:
		backend, err := store.NewFileBackend(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("init file backend: %w", err)
		}
		return backend, nil
	case DriverRedis:
		backend, err := store.NewRedisBackend(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisKeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("init redis backend: %w", err)
		}
		return backend, nil
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required for postgres storage")
		}
		backend, err := store.NewGormBackend(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres backend: %w", err)
		}
		return backend, nil
	case DriverMinio:
		backend, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return nil, fmt.Errorf("init minio backend: %w", err)
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func closeBackend(backend store.Backend) error {
	if c, ok := backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Close releases the backend connection when App opened it.
func (a *App) Close() error {
	if !a.ownsBackend {
		return nil
	}
	return closeBackend(a.backend)
}
