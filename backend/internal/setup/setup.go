package setup

import (
	"context"
	"fmt"

	"github.com/clientspot/clientspot/backend/internal/handler"
	"github.com/clientspot/clientspot/backend/internal/service"
	svcutils "github.com/clientspot/clientspot/backend/internal/service/utils"
	"github.com/clientspot/clientspot/backend/internal/storage/pg"
	otpredis "github.com/clientspot/clientspot/backend/internal/storage/redis"
	"github.com/clientspot/clientspot/backend/internal/utils/email"
	"github.com/clientspot/clientspot/shared/config"
	"github.com/clientspot/clientspot/shared/jwt"
	"github.com/clientspot/clientspot/shared/logger"
	mw "github.com/clientspot/clientspot/shared/middleware"
	sharedpg "github.com/clientspot/clientspot/shared/storage/pg"
	"github.com/redis/go-redis/v9"
)

const EmailDriverLog = "log"

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Redis          *redis.Client // nil unless otp_store is redis
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
	Collector      *service.CodeCollector
}

// SetupDependencies initializes all dependencies required for the API server.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg.Pg(), sharedpg.DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}
	deps := &Dependencies{Config: cfg, Storage: storage}
	health := []handler.Dependency{{Name: "postgres", Checker: storage}}

	var otps service.ResetOTPStorage = storage
	if cfg.Public.OtpStore == config.OtpStoreRedis {
		client, err := otpredis.Connect(ctx, cfg.Redis())
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.Redis = client
		store := otpredis.New(client)
		otps = store
		health = append(health, handler.Dependency{Name: "redis", Checker: store})
	}
	logger.Log.Info("reset otp store selected", "store", cfg.Public.OtpStore)

	notifier := newNotifier(cfg.Email())
	tokens := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	authenticator := service.NewAuthenticator(storage, tokens)
	codes := service.NewCodeIssuer(storage, notifier, cfg.Public.ConfirmationCodeLen)
	resets := service.NewResetIssuer(storage, otps, notifier, cfg.Public.OtpLen, cfg.Public.UniformResetResponse)
	account := service.NewAccount(storage, otps, codes, resets, authenticator)
	company := service.NewCompany(storage, svcutils.NewTextProcessor(), cfg.Public.DefaultBanner)

	deps.AuthMiddleware = mw.NewAuth(authenticator, cfg.Public.SecureCookies)
	deps.Handler = handler.New(account, company, deps.AuthMiddleware, cfg, health...)
	deps.Collector = service.NewCodeCollector(storage, otps)
	return deps, nil
}

// SetupAdmin builds just enough to create administrator accounts.
func SetupAdmin(ctx context.Context, cfg *config.Config) (*service.Account, func(), error) {
	storage, err := pg.New(ctx, cfg.Pg(), sharedpg.LightweightConnectionConfig())
	if err != nil {
		return nil, nil, err
	}
	account := service.NewAccount(storage, storage, nil, nil, nil)
	return account, func() { storage.Cleanup() }, nil
}

func newNotifier(cfg config.Email) service.Notifier {
	switch cfg.Driver {
	case EmailDriverLog:
		logger.Log.Warn("emails are logged, not sent", "driver", cfg.Driver)
		return email.LogSender{}
	default:
		return email.New(cfg)
	}
}

func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			logger.Log.Error("failed to close redis client", "error", err)
		}
	}
	if d.Storage != nil {
		if err := d.Storage.Cleanup(); err != nil {
			logger.Log.Error(fmt.Sprintf("failed to close database: %v", err))
		}
	}
}
