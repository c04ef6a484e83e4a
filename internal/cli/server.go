package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"upsc-trainer/internal/app"
	"upsc-trainer/internal/bank"
	"upsc-trainer/internal/config"
	"upsc-trainer/internal/domain"
	filestore "upsc-trainer/internal/infra/file"
	"upsc-trainer/internal/infra/memory"
	"upsc-trainer/internal/infra/postgres"
	redisstore "upsc-trainer/internal/infra/redis"
	"upsc-trainer/internal/infra/storage"
	transport "upsc-trainer/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trainer server",
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

	service, prefs, cleanup, err := buildTrainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	loopCtx, stopLoops := context.WithCancel(ctx)
	defer stopLoops()
	interval := config.TTLDuration(cfg.Checkpoint.Interval, 10*time.Second)
	go service.RunCheckpointLoop(loopCtx, interval)

	wsHandler := transport.NewWSHandler(service, prefs)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trainer on :%s", finalPort)
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

// buildTrainer assembles the storage backend, bank repository and service from
// config. The default wiring is fully local: file (or memory) storage plus the
// built-in demo bank.
func buildTrainer(ctx context.Context, cfg config.Config) (*app.TrainerService, *storage.Prefs, func(), error) {
	cleanups := []func(){}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var store storage.Store
	switch {
	case cfg.Redis.Addr != "":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cleanups = append(cleanups, func() { _ = client.Close() })
		store = redisstore.NewStore(client)
	case cfg.Storage.Dir != "":
		fs, err := filestore.NewStore(cfg.Storage.Dir)
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		store = fs
	default:
		store = memory.NewStore()
	}

	var loader bank.Loader
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		cleanups = append(cleanups, pool.Close)
		loader = postgres.NewBankLoader(pool)
	case cfg.Banks.Dir != "":
		loader = bank.NewFileLoader(cfg.Banks.Dir)
	default:
		loader = bank.NewStaticLoader(map[string][]domain.Question{
			"demo": bank.DemoQuestions(),
		})
	}
	bankTTL := config.TTLDuration(cfg.Banks.TTL, 10*time.Minute)
	banks := bank.NewRepository(loader, bankTTL)

	history := storage.NewHistoryStore(store)
	mistakes := storage.NewMistakeBank(store, cfg.Mistakes.Capacity)
	prefs := storage.NewPrefs(store)

	service := app.NewTrainerService(banks, history, mistakes, prefs, nil)
	if cfg.Marking.PerCorrect > 0 {
		service.SetMarking(cfg.Marking.PerCorrect, cfg.Marking.Negative)
	}
	return service, prefs, cleanup, nil
}
