package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/medcompanion/internal/api/grpc/context"
	"github.com/dtroode/medcompanion/internal/api/grpc/router"
	grpcServer "github.com/dtroode/medcompanion/internal/api/grpc/server"
	"github.com/dtroode/medcompanion/internal/config"
	"github.com/dtroode/medcompanion/internal/logger"
	"github.com/dtroode/medcompanion/internal/model"
	"github.com/dtroode/medcompanion/internal/password"
	"github.com/dtroode/medcompanion/internal/repository/memory"
	"github.com/dtroode/medcompanion/internal/repository/postgres"
	"github.com/dtroode/medcompanion/internal/server"
	"github.com/dtroode/medcompanion/internal/service"
	"github.com/dtroode/medcompanion/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	tokenService := service.NewTokenService(token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL), logger)

	// accounts token <subject> prints a service token for a companion and exits.
	if len(os.Args) == 3 && os.Args[1] == "token" {
		tok, err := tokenService.Issue(os.Args[2])
		if err != nil {
			logger.Fatal("failed to issue token", "error", err)
		}
		fmt.Println(tok)
		return
	}

	credentials, profiles, closeStore := openStore(ctx, cfg, logger)
	defer closeStore()

	accountsService := service.NewAccounts(credentials, profiles, logger)
	r := router.New(accountsService, tokenService, grpcctx.NewManager(), logger)
	s := r.Register()
	reflection.Register(s)

	grpcServer := grpcServer.NewGRPCServer(s, fmt.Sprintf(":%s", cfg.GRPC.Port))

	var sl model.SecurityLayer
	if cfg.GRPC.EnableHTTPS {
		sl = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting accounts server", "address", s.Address(), "source", cfg.Accounts.Source)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(grpcServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")
	r.Health().Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := grpcServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", grpcServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func openStore(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.CredentialSource, model.ProfileSource, func()) {
	switch cfg.Accounts.Source {
	case config.SourceRemote:
		logger.Fatal("accounts server cannot use the remote source, set ACCOUNTS_SOURCE to memory or postgres")
	case config.SourceMemory:
		creds, err := memory.NewSeededCredentials(password.NewBcrypt(cfg.BcryptCost))
		if err != nil {
			logger.Fatal("failed to seed demo accounts", "error", err)
		}
		logger.Warn("serving in-memory demo accounts, nothing is persisted")
		return creds, memory.NewSeededProfiles(), func() {}
	}

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	return postgres.NewCredentialRepository(db), postgres.NewProfileRepository(db), func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
