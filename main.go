package main

import (
	"HaloBackend/config"
	"HaloBackend/controllers"
	"HaloBackend/middlewares"
	"HaloBackend/pkg/logger"
	"HaloBackend/repositories/impl"
	"HaloBackend/routes"
	"HaloBackend/services"
	"HaloBackend/tasks"
	"HaloBackend/websocket"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 20 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file, using environment variables")
	}

	rootCmd := &cobra.Command{
		Use:          "halo",
		Short:        "HALO parental safety backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(classifyCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func classifyCmd() *cobra.Command {
	var useModel bool

	cmd := &cobra.Command{
		Use:   "classify [text]",
		Short: "Run the phishing heuristic on a piece of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			fmt.Fprintf(cmd.OutOrStdout(), "suspicious: %t\n", services.DetectPhishing(text))
			if !useModel {
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel, cfg.LogFormat)
			analyzer := services.NewHuggingFaceAnalyzer(cfg.NLPAPIURL, cfg.NLPModelName, cfg.NLPAPIToken, cfg.NLPTimeout, log)
			out, err := json.MarshalIndent(analyzer.Analyze(cmd.Context(), text), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "analysis: %s\n", out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&useModel, "model", false, "also query the text classification model")
	return cmd
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(gin.ReleaseMode)

	var app *firebase.App
	if cfg.NeedsFirebase() {
		app, err = config.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseProjectID)
		if err != nil {
			return err
		}
	}

	store, err := config.OpenRecordStore(ctx, cfg, app)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("closing record store")
		}
	}()
	log.WithField("driver", cfg.StoreDriver).Info("record store ready")

	// Initialize repositories
	childRepo := impl.NewChildRepository(store)
	parentRepo := impl.NewParentRepository(store)
	alertRepo := impl.NewAlertRepository(store)
	telemetryRepo := impl.NewTelemetryRepository(store)

	var messagingClient services.MessagingClient
	if cfg.PushEnabled {
		client, err := app.Messaging(ctx)
		if err != nil {
			return fmt.Errorf("error getting messaging client: %w", err)
		}
		messagingClient = client
	} else {
		log.Warn("PUSH_ENABLED=false, push notifications are disabled")
	}

	verifier, err := newVerifier(ctx, cfg, app)
	if err != nil {
		return err
	}

	var limiter middlewares.Limiter
	if cfg.RedisURI != "" {
		rdb, err := config.ConnectRedis(ctx, cfg.RedisURI)
		if err != nil {
			return err
		}
		defer rdb.Close()
		limiter = middlewares.NewRedisLimiter(rdb, cfg.RateLimitPerMinute, time.Minute)
	}

	runner := tasks.NewRunner(log, cfg.TaskTimeout)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := websocket.NewHub(log)
	go hub.Run(hubCtx)

	// Initialize services
	push := services.NewNotificationService(messagingClient, log)
	mail := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.FromEmail)
	analyzer := services.NewHuggingFaceAnalyzer(cfg.NLPAPIURL, cfg.NLPModelName, cfg.NLPAPIToken, cfg.NLPTimeout, log)

	// Set services in controllers
	controllers.SetLogger(log)
	controllers.SetChildService(services.NewChildService(childRepo, telemetryRepo, log))
	controllers.SetParentService(services.NewParentService(parentRepo, telemetryRepo, log))
	controllers.SetAlertService(services.NewAlertService(childRepo, parentRepo, alertRepo, telemetryRepo, analyzer, push, runner, hub, log))
	controllers.SetSOSService(services.NewSOSService(childRepo, parentRepo, telemetryRepo, push, mail, runner, hub, log))
	controllers.SetUsageService(services.NewUsageService(telemetryRepo))
	controllers.SetFeedHub(hub)

	router := routes.SetupRouter(routes.Options{
		Logger:         log,
		Verifier:       verifier,
		EnforceAuth:    cfg.AuthEnforce,
		Limiter:        limiter,
		MetricsEnabled: cfg.MetricsEnabled,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverLog := logger.Component(log, "server")
	errCh := make(chan error, 1)
	go func() {
		serverLog.WithField("port", cfg.Port).Info("HALO backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		serverLog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		serverLog.WithError(err).Error("http server shutdown")
	}
	stopHub()
	if err := runner.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("background tasks cut short")
	}
	return nil
}

func newVerifier(ctx context.Context, cfg *config.Config, app *firebase.App) (middlewares.TokenVerifier, error) {
	if cfg.JWTSecret != "" {
		return services.NewJWTVerifier(cfg.JWTSecret), nil
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Auth client: %w", err)
	}
	return services.NewFirebaseVerifier(authClient), nil
}
