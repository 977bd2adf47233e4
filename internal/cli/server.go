package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adaptive-quiz-service/internal/app"
	"adaptive-quiz-service/internal/config"
	"adaptive-quiz-service/internal/infra/backend"
	"adaptive-quiz-service/internal/infra/memory"
	pgstore "adaptive-quiz-service/internal/infra/postgres"
	redisstore "adaptive-quiz-service/internal/infra/redis"
	transport "adaptive-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	service := buildService(cfg, redisClient, pool)
	if cfg.Quiz.Mode == config.ModeRemote {
		if err := backend.NewSessionBackend(newBackendClient(cfg)).Health(ctx); err != nil {
			log.Printf("session backend health check failed: %v", err)
		}
	}

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     transport.NewRouter(service, cfg.Server.AllowedOrigins),
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s (mode %s)", finalPort, cfg.Quiz.Mode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildService wires the stores and the question source for the configured mode. Redis
// and Postgres are optional; without them everything stays in memory.
func buildService(cfg config.Config, redisClient *redis.Client, pool *pgxpool.Pool) *app.QuizService {
	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisstore.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	} else {
		sessions = memory.NewSessionStore()
	}

	var (
		providers app.ProviderFactory
		board     app.LeaderboardSource
		recorder  app.AttemptRecorder
	)
	switch cfg.Quiz.Mode {
	case config.ModeRemote:
		sb := backend.NewSessionBackend(newBackendClient(cfg))
		providers = backend.Providers(sb)
		board = sb
	default:
		var loader memory.BankLoader = memory.NewStaticBankLoader(sampleBanks(cfg.Quiz.Content))
		if pool != nil {
			loader = pgstore.NewBankLoader(pool)
		}

		bankTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
		var banks app.BankRepository
		if redisClient != nil {
			banks = redisstore.NewBankRepository(redisClient, loader, bankTTL)
		} else {
			banks = memory.NewBankRepository(loader, bankTTL)
		}
		providers = app.LocalProviders(banks)

		switch {
		case pool != nil:
			attempts := pgstore.NewAttemptStore(pool)
			board, recorder = attempts, attempts
		case redisClient != nil:
			attempts := redisstore.NewAttemptStore(redisClient)
			board, recorder = attempts, attempts
		default:
			attempts := memory.NewAttemptStore()
			board, recorder = attempts, attempts
		}
	}

	service := app.NewQuizService(sessions, providers, board, recorder)
	service.SetLength(cfg.Quiz.Length)
	return service
}

func newBackendClient(cfg config.Config) *backend.Client {
	return backend.NewClient(backend.Config{
		BaseURL:       cfg.Backend.BaseURL,
		Timeout:       config.TTLDuration(cfg.Backend.Timeout, backend.DefaultTimeout),
		RetryAttempts: cfg.Backend.RetryAttempts,
		RetryDelay:    config.TTLDuration(cfg.Backend.RetryDelay, backend.DefaultRetryDelay),
		APIKey:        cfg.Backend.APIKey,
		AuthToken:     cfg.Backend.AuthToken,
	})
}
