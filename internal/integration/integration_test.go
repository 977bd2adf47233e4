package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"adaptive-quiz-service/internal/app"
	"adaptive-quiz-service/internal/domain"
	pgstore "adaptive-quiz-service/internal/infra/postgres"
	pgmigrations "adaptive-quiz-service/internal/infra/postgres/migrations"
	infraredis "adaptive-quiz-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestPracticeRunEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgstore.NewBankLoader(pool)
	if err := loader.SaveBank(ctx, sampleBank()); err != nil {
		t.Fatalf("seed bank: %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	banks := infraredis.NewBankRepository(redisClient, loader, 5*time.Minute)
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	attempts := pgstore.NewAttemptStore(pool)
	service := app.NewQuizService(sessions, app.LocalProviders(banks), attempts, attempts)
	service.SetLength(3)

	for _, learner := range []app.Learner{{ID: "u1", Name: "Alice"}, {ID: "u2", Name: "Bob"}} {
		_, view, err := service.Begin(ctx, learner, "physics-1", nil)
		if err != nil {
			t.Fatalf("begin %s: %v", learner.ID, err)
		}
		for view.State != app.StateCompleted {
			choice := view.Question.CorrectIndex
			if learner.ID == "u2" {
				choice = (choice + 1) % len(view.Question.Options)
			}
			if _, err := service.SelectOption("physics-1", learner.ID, choice); err != nil {
				t.Fatalf("select: %v", err)
			}
			if _, err := service.Submit(ctx, "physics-1", learner.ID); err != nil {
				t.Fatalf("submit: %v", err)
			}
			if view, err = service.Advance(ctx, "physics-1", learner.ID); err != nil {
				t.Fatalf("advance: %v", err)
			}
		}
	}

	board, err := service.Leaderboard(ctx, "physics-1")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board.Overall) != 2 || board.MatchCount() != 1 {
		t.Fatalf("expected two learners in one match, got %+v", board)
	}
	ranked := app.RankMatch(board.Match(1))
	// Alice: E, M, H correct = 6/27. Bob: three wrong easy answers = 0.
	if ranked[0].UserName != "Alice" || ranked[0].Score != 22 || ranked[1].Score != 0 {
		t.Fatalf("unexpected ranking %+v", ranked)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "practice", "POSTGRES_PASSWORD": "practice", "POSTGRES_DB": "adaptive"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://practice:practice@%s:%s/adaptive?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func sampleBank() domain.QuestionBank {
	return domain.QuestionBank{
		ContentID: "physics-1",
		Pools: map[domain.Difficulty][]domain.Question{
			domain.Easy:   {{ID: "1", Difficulty: domain.Easy, Prompt: "What is the SI unit of force?", Options: []string{"Joule", "Newton", "Watt", "Pascal"}, CorrectIndex: 1}},
			domain.Medium: {{ID: "5", Difficulty: domain.Medium, Prompt: "What is the formula for kinetic energy?", Options: []string{"KE = mv", "KE = ½mv²", "KE = mv²", "KE = ½mv"}, CorrectIndex: 1}},
			domain.Hard:   {{ID: "9", Difficulty: domain.Hard, Prompt: "What is the acceleration of the system?", Options: []string{"2.45 m/s²", "3.68 m/s²", "4.12 m/s²", "5.23 m/s²"}, CorrectIndex: 0}},
		},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
