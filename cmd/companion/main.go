package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/medcompanion/internal/api/grpc/accounts"
	"github.com/dtroode/medcompanion/internal/api/grpc/client"
	"github.com/dtroode/medcompanion/internal/config"
	"github.com/dtroode/medcompanion/internal/logger"
	"github.com/dtroode/medcompanion/internal/model"
	"github.com/dtroode/medcompanion/internal/navigation"
	"github.com/dtroode/medcompanion/internal/password"
	"github.com/dtroode/medcompanion/internal/repository/memory"
	"github.com/dtroode/medcompanion/internal/repository/postgres"
	"github.com/dtroode/medcompanion/internal/service"
	"github.com/dtroode/medcompanion/internal/shell"
	memoryStorage "github.com/dtroode/medcompanion/internal/storage/memory"
	minioStorage "github.com/dtroode/medcompanion/internal/storage/minio"
	redisStorage "github.com/dtroode/medcompanion/internal/storage/redis"
	"github.com/dtroode/medcompanion/internal/token"
)

const routeBuffer = 16

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	// stdout belongs to the shell.
	logger := logger.NewWithWriter(cfg.LogLevel, os.Stderr)

	hasher := password.NewBcrypt(cfg.BcryptCost)

	kv, closeKV := openKeyValueStore(ctx, cfg, logger)
	defer closeKV()

	credentialSource, profileSource, closeSources := openSources(ctx, cfg, hasher, logger)
	defer closeSources()

	routes := navigation.NewChannel(routeBuffer, logger)
	navigator := navigation.Multi{navigation.NewLog(logger), routes}

	session := service.NewSession(kv, credentialSource, profileSource, hasher, navigator, logger, cfg.Session.Key)

	bootCtx, bootCancel := context.WithTimeout(ctx, cfg.Session.OpTimeout)
	err = session.Bootstrap(bootCtx)
	bootCancel()
	if err != nil {
		logger.Fatal("failed to bootstrap session", "error", err)
	}

	sh := shell.New(session, routes.Routes(), os.Stdin, os.Stdout, cfg.Session.OpTimeout, logger)
	if err := sh.Run(ctx); err != nil {
		logger.Error("shell stopped with error", "error", err)
	}
}

func openKeyValueStore(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.KeyValueStore, func()) {
	switch cfg.Session.Backend {
	case config.BackendRedis:
		rdb, err := redisStorage.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("failed to connect to redis", "error", err)
		}
		logger.Info("session store: redis", "address", cfg.Redis.Addr)
		return redisStorage.NewStore(rdb, cfg.Redis.Prefix, cfg.Redis.TTL), func() {
			if err := rdb.Close(); err != nil {
				logger.Error("failed to close redis client", "error", err)
			}
		}
	case config.BackendMinio:
		mc, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
			Secure: cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Fatal("failed to create minio client", "error", err)
		}
		store, err := minioStorage.NewClient(ctx, mc, cfg.Storage.Bucket, cfg.Storage.Prefix)
		if err != nil {
			logger.Fatal("failed to initialize minio storage", "error", err)
		}
		logger.Info("session store: minio", "endpoint", cfg.Storage.Endpoint, "bucket", cfg.Storage.Bucket)
		return store, func() {}
	default:
		logger.Warn("session store: memory, the signed-in user is forgotten on exit")
		return memoryStorage.NewStore(), func() {}
	}
}

func openSources(ctx context.Context, cfg *config.Config, hasher model.PasswordHasher, logger *logger.Logger) (model.CredentialSource, model.ProfileSource, func()) {
	switch cfg.Accounts.Source {
	case config.SourcePostgres:
		db, err := postgres.NewConection(ctx, cfg.Database.DSN)
		if err != nil {
			logger.Fatal("failed to initialize storage", "error", err)
		}
		return postgres.NewCredentialRepository(db), postgres.NewProfileRepository(db), func() {
			if err := db.Close(); err != nil {
				logger.Error("failed to close storage", "error", err)
			}
		}
	case config.SourceRemote:
		if cfg.Accounts.Token == "" {
			tok, err := service.NewTokenService(token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL), logger).Issue(cfg.Accounts.Subject)
			if err != nil {
				logger.Fatal("failed to issue service token", "error", err)
			}
			cfg.Accounts.Token = tok
		}
		creds, err := client.TransportCredentials(cfg.Accounts.UseTLS, cfg.Accounts.CAFile)
		if err != nil {
			logger.Fatal("failed to load transport credentials", "error", err)
		}
		conn, err := client.Dial(cfg.Accounts.Addr, cfg.Accounts.Token, creds)
		if err != nil {
			logger.Fatal("failed to dial accounts service", "error", err, "address", cfg.Accounts.Addr)
		}
		remote := client.NewAccounts(accounts.NewAccountsClient(conn))
		return remote, remote, func() {
			if err := conn.Close(); err != nil {
				logger.Error("failed to close accounts connection", "error", err)
			}
		}
	default:
		creds, err := memory.NewSeededCredentials(hasher)
		if err != nil {
			logger.Fatal("failed to seed demo accounts", "error", err)
		}
		return creds, memory.NewSeededProfiles(), func() {}
	}
}
