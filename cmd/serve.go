package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/cache"
	"github.com/vibast-solutions/ms-go-contacts/app/controller"
	contactsgrpc "github.com/vibast-solutions/ms-go-contacts/app/grpc"
	"github.com/vibast-solutions/ms-go-contacts/app/mailer"
	"github.com/vibast-solutions/ms-go-contacts/app/middleware"
	"github.com/vibast-solutions/ms-go-contacts/app/repository"
	"github.com/vibast-solutions/ms-go-contacts/app/router"
	"github.com/vibast-solutions/ms-go-contacts/app/service"
	"github.com/vibast-solutions/ms-go-contacts/app/storage"
	"github.com/vibast-solutions/ms-go-contacts/app/worker"
	"github.com/vibast-solutions/ms-go-contacts/config"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

const (
	healthInterval  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	Long:  `Start the HTTP (Echo) API and the gRPC health server for the contacts service.`,
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	contactRepo := repository.NewContactRepository(db)

	if err := service.NewRoleService(userRepo, roleRepo).EnsureSeeded(ctx); err != nil {
		logrus.WithError(err).Fatal("Roles are missing, run the migrations first")
	}

	// rc stays a nil interface without Redis so the rate limiter falls back to memory.
	var rc redis.Cmdable
	contactOpts := []service.ContactServiceOption{}
	if cfg.Redis.URL != "" {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to connect to redis")
		}
		defer client.Close()
		rc = client
		contactOpts = append(contactOpts, service.WithContactCache(cache.NewContactLists(client, cfg.Cache.ContactsTTL)))
	} else {
		logrus.Warn("REDIS_URL is not set, contact lists are not cached and rate limits are per process")
	}

	sender, err := mailer.NewSender(cfg.Mail)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to configure mail delivery")
	}

	var uploader service.ObjectUploader = storage.Unconfigured{}
	if cfg.Storage.Bucket != "" {
		s3Uploader, err := storage.New(ctx, cfg.Storage)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to configure object storage")
		}
		uploader = s3Uploader
	} else {
		logrus.Warn("S3_BUCKET is not set, avatar uploads are disabled")
	}

	queue := worker.NewQueue(worker.Config{Workers: cfg.Worker.Count, QueueSize: cfg.Worker.QueueSize})
	queue.Start()

	tokens := service.NewTokenService(cfg.JWT.Secret, service.TokenTTLs{
		Access:       cfg.JWT.AccessTokenTTL,
		Refresh:      cfg.JWT.RefreshTokenTTL,
		Verification: cfg.Tokens.VerificationTTL,
	})
	registration := service.NewRegistrationService(
		userRepo,
		roleRepo,
		service.NewPasswordHasher(cfg.Password.BcryptCost),
		tokens,
		mailer.NewVerificationMailer(sender, cfg.App.BaseURL, cfg.Tokens.VerificationTTL),
		queue,
		cfg.Password.Policy,
	)

	ipExtractor, err := middleware.ClientIPExtractor(cfg.App.TrustedProxies)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid TRUSTED_PROXIES")
	}

	handlers := router.Handlers{
		Auth:        controller.NewAuthController(registration, service.NewProfileService(uploader, userRepo)),
		Contacts:    controller.NewContactController(service.NewContactService(contactRepo, contactOpts...)),
		AuthMW:      middleware.NewAuthMiddleware(service.NewAuthenticator(tokens, userRepo)),
		Guard:       service.NewGuard(),
		RateLimiter: middleware.NewRateLimiter(rc),
		IPExtractor: ipExtractor,
	}

	reporter := contactsgrpc.NewHealthReporter(db, healthInterval)
	go reporter.Run(ctx)
	grpcServer := startGRPCServer(cfg, reporter)

	e := newHTTPServer(cfg, handlers)
	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("HTTP server shutdown failed")
	}
	grpcServer.GracefulStop()
	if err := queue.Stop(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("Worker queue did not drain before shutdown")
	}
}

func newHTTPServer(cfg *config.Config, handlers router.Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			if user, ok := middleware.CurrentUser(c); ok {
				fields["user_id"] = user.ID
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.App.CORSOrigins,
		AllowCredentials: true,
	}))

	router.Register(e, handlers)
	return e
}

func startGRPCServer(cfg *config.Config, reporter *contactsgrpc.HealthReporter) *grpc.Server {
	grpcAddr := net.JoinHostPort(cfg.GRPCHost, cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to listen on gRPC port")
	}

	grpcServer := contactsgrpc.NewServer(reporter)
	go func() {
		logrus.WithField("addr", grpcAddr).Info("Starting gRPC server")
		if err := grpcServer.Serve(lis); err != nil {
			logrus.WithError(err).Fatal("gRPC server stopped")
		}
	}()

	return grpcServer
}
