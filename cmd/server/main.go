package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"booking-api/internal/auth"
	"booking-api/internal/config"
	"booking-api/internal/handler"
	"booking-api/internal/health"
	"booking-api/internal/middleware"
	"booking-api/internal/service"
	"booking-api/internal/store"
	"booking-api/internal/store/gormstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// database
	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer closeStore()
	if err := st.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.WithField("driver", cfg.DBDriver).Info("database ready")

	if cfg.SeedDemo {
		if err := service.SeedDemo(ctx, st, log); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	signer := auth.NewSigner(cfg.JWTSecret, cfg.TokenTTL)
	h := handler.New(
		service.NewAuthService(st, signer, log),
		service.NewAppointmentService(st, log),
		service.NewSlotService(st, log),
		log,
	)

	limiter, closeLimiter := newLimiter(ctx, cfg, log)
	defer closeLimiter()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger(log), middleware.CORS(cfg.CORSAllowedOrigin))
	h.Routes(router, middleware.RateLimit(limiter, log))

	// grpc health on its own port
	var grpcSrv *grpc.Server
	if cfg.GRPCPort != "" {
		mon := health.NewMonitor(st, cfg.HealthInterval, log)
		grpcSrv = grpc.NewServer()
		mon.Register(grpcSrv)
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			log.Fatalf("listen: %v", err)
		}
		go mon.Run(ctx)
		go func() {
			log.Infof("grpc health on :%s", cfg.GRPCPort)
			serve("grpc", func() error { return grpcSrv.Serve(lis) }, stop, log)
		}()
	}

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("http on :%s", cfg.Port)
		serve("http", httpSrv.ListenAndServe, stop, log)
	}()

	// graceful shutdown
	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
}

// serve runs fn until it returns. A failure other than a normal close
// cancels the root context so the deferred cleanup still runs.
func serve(name string, fn func() error, stop context.CancelFunc, log logrus.FieldLogger) {
	err := fn()
	if err == nil || errors.Is(err, http.ErrServerClosed) || errors.Is(err, grpc.ErrServerStopped) {
		return
	}
	log.WithError(err).Errorf("%s server stopped", name)
	stop()
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.Production() {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	log.SetLevel(cfg.LogLevel)
	log.SetOutput(os.Stdout)
	return log
}

func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (service.Store, func(), error) {
	switch cfg.DBDriver {
	case gormstore.DriverSQLite, gormstore.DriverPostgres:
		dsn := cfg.DatabaseURL
		if cfg.DBDriver == gormstore.DriverSQLite {
			dsn = cfg.SQLitePath
		}
		st, err := gormstore.Open(cfg.DBDriver, dsn, log)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store.New(pool), pool.Close, nil
}

// newLimiter prefers Redis so that limits hold across instances.
func newLimiter(ctx context.Context, cfg *config.Config, log *logrus.Logger) (middleware.Limiter, func()) {
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable, using in-memory rate limiter")
			_ = rdb.Close()
		} else {
			limit := int(cfg.RateLimitRPS*cfg.RateLimitWindow.Seconds()) + cfg.RateLimitBurst
			log.WithField("addr", cfg.RedisAddr).Info("using redis rate limiter")
			return middleware.NewRedisLimiter(rdb, limit, cfg.RateLimitWindow), func() { _ = rdb.Close() }
		}
	}
	rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	return rl, rl.Stop
}
