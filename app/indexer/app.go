package indexer

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/suiwatch/suix/pkg/db/analytics"
	"github.com/suiwatch/suix/pkg/logging"
	"github.com/suiwatch/suix/pkg/ownership"
	"github.com/suiwatch/suix/pkg/packages"
	redisclient "github.com/suiwatch/suix/pkg/redis"
	"github.com/suiwatch/suix/pkg/rpc"
	"github.com/suiwatch/suix/pkg/types"
	"github.com/suiwatch/suix/pkg/utils"
	"go.uber.org/zap"
)

// App wires the ownership ingestion pipeline: fullnode RPC ->
// handler -> accumulator -> ClickHouse, with Redis carrying the
// durable package-metadata cache and flush notifications.
type App struct {
	Logger     *zap.Logger
	DB         *analytics.DB
	Redis      *redisclient.Client
	Handler    *ownership.Handler
	Puller     *Puller
	Flusher    *Flusher
	Server     *http.Server
	FilterDesc string
}

// Initialize initializes the application.
func Initialize(ctx context.Context) *App {
	logger, err := logging.New()
	if err != nil {
		// nothing else to do here, we'll just log to stderr
		panic(err)
	}

	db, dbErr := analytics.New(ctx, logger)
	if dbErr != nil {
		logger.Fatal("Unable to initialize analytics store", zap.Error(dbErr))
	}

	var redisCli *redisclient.Client
	if utils.EnvBool("REDIS_ENABLED", true) {
		redisCli, err = redisclient.NewClient(ctx, logger)
		if err != nil {
			logger.Fatal("Unable to establish redis connection", zap.Error(err))
		}
	}

	endpoints := strings.Split(utils.Env("SUI_RPC_ENDPOINTS", "https://fullnode.mainnet.sui.io:443"), ",")
	rpcOpts := rpc.Opts{
		RPS:             utils.EnvInt("SUI_RPC_RPS", 50),
		Burst:           utils.EnvInt("SUI_RPC_BURST", 100),
		BreakerFailures: 5,
		BreakerCooldown: 10 * time.Second,
	}
	client := rpc.NewHTTPFactory(rpcOpts).NewClient(endpoints)

	var durable packages.Durable
	if redisCli != nil {
		durable = redisCli
	}
	cache := packages.New(logger, client, durable)

	coinType := utils.Env("COIN_TYPE", types.SuiCoinType)
	packageFilter := utils.Env("PACKAGE_FILTER", "")
	filter := ownership.NewFilter(coinType, packageFilter)

	handler := ownership.NewHandler(logger, cache, filter)

	app := &App{
		Logger:  logger,
		DB:      db,
		Redis:   redisCli,
		Handler: handler,
		Flusher: &Flusher{
			Logger:   logger,
			Handler:  handler,
			DB:       db,
			Redis:    redisCli,
			CronSpec: utils.Env("FLUSH_CRON", "*/30 * * * * *"),
		},
		Puller: NewPuller(
			logger,
			client,
			handler,
			utils.EnvInt("CHECKPOINT_PREFETCH", 8),
			time.Duration(utils.EnvInt("POLL_INTERVAL_MS", 2000))*time.Millisecond,
		),
		FilterDesc: describeFilter(coinType, packageFilter),
	}
	app.Server = app.newServer()

	if err := app.Flusher.SetupScheduler(ctx, cron.DefaultLogger); err != nil {
		logger.Fatal("Unable to schedule flusher", zap.Error(err))
	}

	return app
}

// Start runs the pipeline and blocks until the context is cancelled
// or checkpoint processing fails.
func (a *App) Start(ctx context.Context) {
	go func() {
		a.Logger.Info("HTTP server listening", zap.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	a.Flusher.StartCron()

	start := a.startCheckpoint(ctx)
	if err := a.Puller.Run(ctx, start); err != nil {
		// The stage holds no resumption state; restart re-delivers
		// from the durable cursor.
		a.Logger.Error("Checkpoint processing halted", zap.Error(err))
	}

	a.Stop(ctx)
}

// startCheckpoint resumes from the durable cursor when present, else
// from the configured start.
func (a *App) startCheckpoint(ctx context.Context) uint64 {
	cursor, found, err := a.DB.GetCursor(ctx)
	if err != nil {
		a.Logger.Fatal("Unable to read ingest cursor", zap.Error(err))
	}
	if found {
		a.Logger.Info("Resuming from durable cursor", zap.Uint64("checkpoint", cursor))
		return cursor + 1
	}
	return utils.EnvUint64("START_CHECKPOINT", 0)
}

// Stop flushes the remaining window and releases resources.
func (a *App) Stop(ctx context.Context) {
	a.Flusher.StopCron()

	// Final flush so a clean shutdown leaves nothing buffered.
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := a.Flusher.Flush(flushCtx); err != nil {
		a.Logger.Error("Final flush failed", zap.Error(err))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancelShutdown()
	_ = a.Server.Shutdown(shutdownCtx)

	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	_ = a.DB.Close()
	a.Logger.Info("さようなら!")
}

func describeFilter(coinType, packageFilter string) string {
	switch {
	case coinType != "" && packageFilter != "":
		return coinType + " in " + packageFilter
	case coinType != "":
		return coinType
	case packageFilter != "":
		return packageFilter
	}
	return ""
}
