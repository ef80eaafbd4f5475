package securestore

import (
	"log/slog"

	"ciquest/config"
	"ciquest/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Backend names accepted in configuration.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// StorageParams holds dependencies for SecureStorage, injected by Fx
type StorageParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewSecureStorage creates a SecureStorage based on configuration.
func NewSecureStorage(params StorageParams) (service.SecureStorage, error) {
	cfg := params.Config.SecureStore
	logger := params.Logger

	switch cfg.Backend {
	case "", BackendMemory:
		logger.Info("Using in-memory secure storage, session will not survive restarts")

		return NewMemoryStore(), nil

	case BackendFile:
		if cfg.Path == "" {
			return nil, errors.New("path is required for file secure storage")
		}
		logger.Info("Using encrypted file secure storage", slog.String("path", cfg.Path))

		return NewFileStore(cfg.Path, cfg.Passphrase)

	case BackendSQLite:
		if cfg.Path == "" {
			return nil, errors.New("path is required for sqlite secure storage")
		}
		logger.Info("Using SQLite secure storage", slog.String("path", cfg.Path))

		return NewGormStore(cfg.Path, cfg.Passphrase)

	default:
		return nil, errors.Errorf("unknown secure storage backend: %s", cfg.Backend)
	}
}

// Module provides the secure storage FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewSecureStorage),
)
