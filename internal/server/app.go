// Package server wires the vault server together: vault registry, object
// storage, compression, signaling relay and the HTTP API.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/storjvault/internal/logging"
	"github.com/dmitrijs2005/storjvault/internal/server/compress"
	"github.com/dmitrijs2005/storjvault/internal/server/config"
	"github.com/dmitrijs2005/storjvault/internal/server/metrics"
	"github.com/dmitrijs2005/storjvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storjvault/internal/server/rest"
	"github.com/dmitrijs2005/storjvault/internal/server/services"
	"github.com/dmitrijs2005/storjvault/internal/server/signaling"
	"github.com/dmitrijs2005/storjvault/internal/server/storage"
)

const defaultSecretKey = "your_super_secret_jwt_key_please_change_this"

type App struct {
	config   *config.Config
	logger   logging.Logger
	repos    repomanager.RepositoryManager
	handler  *rest.Server
	sessions *signaling.Relay
}

// openRepositories picks PostgreSQL when a DSN is configured and the JSON
// vault file otherwise.
func openRepositories(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN != "" {
		return repomanager.NewPostgresRepositoryManager(ctx, c.DatabaseDSN)
	}
	return repomanager.NewFileRepositoryManager(c.VaultsFile)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if c.SecretKey == "" || c.SecretKey == defaultSecretKey {
		logger.Warn(ctx, "JWT_SECRET is not set, tokens are signed with a development key")
	}

	rm, err := openRepositories(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("vault store init error: %w", err)
	}
	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	client, err := storage.NewClient(ctx, storage.ClientOptions{
		Region:          c.S3Region,
		AccessKeyID:     c.S3AccessKeyID,
		SecretAccessKey: c.S3SecretAccessKey,
		BaseEndpoint:    c.S3BaseEndpoint,
		UsePathStyle:    c.S3ForcePathStyle,
	})
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	store := client.Bucket(c.S3Bucket)
	compressed := client.Bucket(c.S3CompressedBucket)

	for _, b := range []*storage.S3Store{store, compressed} {
		created, err := b.EnsureBucket(ctx)
		if err != nil {
			_ = rm.Close()
			return nil, fmt.Errorf("bucket %s: %w", b.Bucket(), err)
		}
		if created {
			logger.Info(ctx, "bucket created", "bucket", b.Bucket())
		}
	}

	var transcoder compress.Transcoder
	if c.FFmpegPath != "" {
		transcoder = &compress.FFmpeg{Path: c.FFmpegPath}
	}

	relay := signaling.NewRelay(c.SignalingTTL, c.SignalingMaxSessions, 0)
	m := metrics.New()
	m.TrackSessions(relay.Sessions)

	svc := rest.Services{
		Vaults: services.NewVaultService(rm, store, c.SecretKey, c.TokenValidityDuration, logger),
		Files: services.NewFileService(store, services.FileServiceOptions{
			Concurrency:   c.DeleteConcurrency,
			MaxUploadSize: c.MaxUploadSize,
			PresignExpiry: c.PresignExpiry,
		}, logger),
		Compression: services.NewCompressionService(store, compressed, compress.New(transcoder), logger),
		Health:      services.NewHealthService(store, compressed, logger),
		Relay:       relay,
	}
	router := rest.NewRouter(svc, m, rest.Options{
		MaxUploadSize: c.MaxUploadSize,
		AllowOrigin:   c.AllowOrigin,
		PresignExpiry: c.PresignExpiry,
	}, logger)

	return &App{
		config:   c,
		logger:   logger,
		repos:    rm,
		handler:  rest.NewServer(c.EndpointAddrHTTP, router, logger),
		sessions: relay,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.handler.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or the server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "address", app.config.EndpointAddrHTTP, "bucket", app.config.S3Bucket)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "closing vault store", "error", err)
	}
	app.logger.Info(ctx, "App stopped", "signaling_sessions", app.sessions.Sessions())
}
