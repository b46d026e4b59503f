package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/classledger/attendance/internal/adapter"
	"github.com/classledger/attendance/internal/api/middleware"
	"github.com/classledger/attendance/internal/api/server"
	"github.com/classledger/attendance/internal/composer"
	"github.com/classledger/attendance/internal/config"
	"github.com/classledger/attendance/internal/ledger"
	"github.com/classledger/attendance/internal/logger"
	"github.com/classledger/attendance/internal/orchestrator"
	"github.com/classledger/attendance/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "attendanced",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting attendance service")

	// Connect to the metadata database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	if err := store.Migrate(db); err != nil {
		logger.FatalCtx(ctx, "Failed to migrate metadata schema", zap.Error(err))
	}
	metaStore := store.NewPGStore(db)
	logger.InfoCtx(ctx, "Connected to metadata database",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	// Connect to the chain
	if !common.IsHexAddress(cfg.Ethereum.ContractAddress) {
		logger.FatalCtx(ctx, "Invalid contract address", zap.String("address", cfg.Ethereum.ContractAddress))
	}
	dialer := adapter.NewEthClientDialer()
	ethClient, err := dialer.Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Ethereum node", zap.Error(err), zap.String("rpc_url", cfg.Ethereum.RPCURL))
	}

	signer, err := adapter.NewKeySigner(cfg.Ethereum.SignerKey)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load signer key", zap.Error(err))
	}

	clock := adapter.NewClock()
	ledgerClient, err := ledger.NewClient(ledger.Config{
		ContractAddress:        common.HexToAddress(cfg.Ethereum.ContractAddress),
		ReceiptInitialInterval: cfg.Ethereum.ReceiptPollInterval,
		ReceiptMaxInterval:     cfg.Ethereum.ReceiptPollMaxInterval,
	}, ethClient, signer, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create ledger client", zap.Error(err))
	}
	defer ledgerClient.Close()
	logger.InfoCtx(ctx, "Connected to attendance contract",
		zap.String("contract", cfg.Ethereum.ContractAddress),
		zap.String("signer", signer.Address().Hex()),
	)

	sessionComposer := composer.New(composer.Config{
		ParticipationConcurrency: cfg.Composer.ParticipationConcurrency,
	}, ledgerClient, metaStore, clock)
	writeOrchestrator := orchestrator.New(ledgerClient, metaStore, sessionComposer)

	srv := server.New(server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}, sessionComposer, writeOrchestrator, ledgerClient)

	go func() {
		if err := srv.Start(); err != nil {
			logger.FatalCtx(ctx, "Server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(ctx, err)
	}
}
