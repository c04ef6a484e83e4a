package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"upsc-trainer/internal/app"
	"upsc-trainer/internal/bank"
	"upsc-trainer/internal/domain"
	"upsc-trainer/internal/infra/postgres"
	pgmigrations "upsc-trainer/internal/infra/postgres/migrations"
	redisstore "upsc-trainer/internal/infra/redis"
	"upsc-trainer/internal/infra/storage"
)

func TestQuizRoundTripEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedBank(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	banks := bank.NewRepository(postgres.NewBankLoader(pool), 5*time.Minute)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	store := redisstore.NewStore(redisClient)
	history := storage.NewHistoryStore(store)
	mistakes := storage.NewMistakeBank(store, 0)
	prefs := storage.NewPrefs(store)
	service := app.NewTrainerService(banks, history, mistakes, prefs, nil)

	cfg := domain.NewSessionConfig(domain.ModeTest, domain.PaperGS1, "Indian Polity", "", 2)
	session, err := service.StartSession(ctx, cfg)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if session.Len() != 2 {
		t.Fatalf("expected 2 questions from the seeded bank, got %d", session.Len())
	}

	// Answer the first question wrong on purpose.
	view := session.View()
	wrong := 0
	for i := range view.Options {
		if i != correctIndexFor(view.ID) {
			wrong = i
			break
		}
	}
	if err := session.SelectOption(view.ID, wrong); err != nil {
		t.Fatalf("select: %v", err)
	}

	result, err := service.SubmitSession(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Wrong != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	// The outcome must be durable in redis.
	saved := history.All(ctx)
	if len(saved) != 1 || saved[0].Wrong != 1 {
		t.Fatalf("history not persisted: %+v", saved)
	}
	recent := mistakes.Recent(ctx, 10)
	if len(recent) != 1 || recent[0].ID != view.ID {
		t.Fatalf("mistake not persisted: %+v", recent)
	}

	// A second read comes from the warm bank cache but matches the seed.
	cached, err := banks.GetBank(ctx, "polity")
	if err != nil {
		t.Fatalf("cached bank: %v", err)
	}
	if len(cached) != 2 {
		t.Fatalf("expected 2 cached questions, got %d", len(cached))
	}
}

func correctIndexFor(id string) int {
	if id == "1" {
		return 1
	}
	return 2
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "trainer", "POSTGRES_PASSWORD": "trainerpass", "POSTGRES_DB": "trainerdb"},
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
	dsn := fmt.Sprintf("postgres://trainer:trainerpass@%s:%s/trainerdb?sslmode=disable", host, port.Port())
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

// seedBank migrates the schema and inserts a two-question polity bank, using
// the external field convention so the adapter path is exercised end to end.
func seedBank(t *testing.T, ctx context.Context, dsn string) {
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

	payload := `{"questions":[
		{"id":1,"question":"Which article guarantees the right to life?","options":["Article 14","Article 21","Article 32","Article 19"],"answerIndex":1,"kind":"mcq","subject":"Polity"},
		{"id":2,"question":"Money bills originate in which house?","options":["Rajya Sabha","Either","Lok Sabha","Joint sitting"],"answerIndex":2,"kind":"mcq","subject":"Polity"}
	]}`
	if _, err := db.ExecContext(ctx, `INSERT INTO banks (slug, data) VALUES (?, ?::jsonb) ON CONFLICT (slug) DO UPDATE SET data=EXCLUDED.data`, "polity", payload); err != nil {
		t.Fatalf("insert bank: %v", err)
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
