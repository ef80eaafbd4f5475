package main

import (
	"context"
	"log/slog"

	"ciquest/config"
	"ciquest/internal/domain/service"
	"ciquest/internal/infra/apiclient"
	logs "ciquest/internal/infra/log"
	"ciquest/internal/infra/qrcode"
	"ciquest/internal/infra/securestore"
	"ciquest/internal/usecase"
	"ciquest/internal/usecase/impl"

	"go.uber.org/fx"
)

type bootParams struct {
	fx.In

	Ctx       context.Context
	Logger    *slog.Logger
	Session   usecase.SessionUsecase
	Directory usecase.StoreDirectoryUsecase
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		fx.Invoke(
			boot,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
		),
		securestore.Module,
		apiclient.Module,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			newQRCodeService,
		),
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	size := cfg.QRCode.Size
	if size <= 0 {
		size = 256
	}

	return qrcode.NewQRCodeService(size, cfg.QRCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewSessionService,
			impl.NewChallengeService,
			impl.NewDirectoryService,
		),
	)
}

// boot restores the persisted session and warms the store directory.
// Both are best-effort: a missing session starts logged out, and a
// failed directory refresh leaves the cache empty until the next try.
func boot(params bootParams) {
	restored := params.Session.Restore(params.Ctx)

	if err := params.Directory.Refresh(params.Ctx, nil); err != nil {
		params.Logger.Warn("Initial store directory refresh failed", slog.Any("error", err))
	}

	params.Logger.Info("App core ready",
		slog.Bool("session_restored", restored),
		slog.Int("stores_cached", len(params.Directory.Stores())),
	)
}
