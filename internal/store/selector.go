package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/attendease/attendease-api/pkg/config"
	"github.com/attendease/attendease-api/pkg/database"
)

// Select binds the active store for the process lifetime. When database
// credentials are configured and the connection succeeds, the remote store is
// used with the flat-file store as per-operation fallback; otherwise the
// flat-file store serves alone. The choice is made exactly once and is never
// re-evaluated per request.
func Select(cfg *config.Config, logger *zap.Logger) (Store, error) {
	local, err := NewFileStore(cfg.LocalStore.Path)
	if err != nil {
		return nil, err
	}

	if !cfg.Database.Configured() {
		logger.Info("remote store disabled or credentials absent, using local flat-file store",
			zap.String("path", local.Path()))
		return local, nil
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logger.Warn("remote store connection failed, using local flat-file store",
			zap.String("path", local.Path()),
			zap.Error(err))
		return local, nil
	}

	remote := NewRemoteStore(db)
	if err := remote.EnsureSchema(context.Background()); err != nil {
		logger.Warn("remote store schema setup failed, using local flat-file store",
			zap.Error(err))
		_ = db.Close()
		return local, nil
	}

	logger.Info("remote store connected, local flat-file store bound as fallback",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Name))
	return NewFallbackStore(remote, local, logger), nil
}
