package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"quizzing/internal/account"
	"quizzing/internal/app"
	"quizzing/internal/config"
	"quizzing/internal/domain"
	"quizzing/internal/game"
	filestore "quizzing/internal/infra/file"
	"quizzing/internal/infra/memory"
	pgstore "quizzing/internal/infra/postgres"
	redisstore "quizzing/internal/infra/redis"
	"quizzing/internal/logger"
	transport "quizzing/internal/transport/http"
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
	log := logger.New("quizzing", cfg.Log.Level)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	stores, err := buildStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stores.close()

	accounts, err := account.Open(ctx, stores.accounts, log)
	if err != nil {
		return err
	}

	loader := memory.ChainLoader{
		memory.NewStaticQuizLoader(map[string]domain.Quiz{
			domain.SampleQuizID: domain.SampleQuiz(),
		}),
		stores.quizzes,
	}
	quizTTL := config.Duration(cfg.Game.QuizCacheTTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if stores.redis != nil {
		quizRepo = redisstore.NewQuizRepository(stores.redis, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	transitionDelay := config.Duration(cfg.Game.TransitionDelay, game.DefaultTransitionDelay)
	feedbackDelay := config.Duration(cfg.Game.FeedbackDelay, game.DefaultFeedbackDelay)

	newService := func() *app.GameService {
		var restored *domain.User
		if u, ok := accounts.CurrentUser(); ok {
			restored = &u
		}
		session := game.NewSession(game.Options{
			TransitionDelay: transitionDelay,
			FeedbackDelay:   feedbackDelay,
			Log:             log,
			User:            restored,
		})
		return app.NewGameService(session, accounts, quizRepo, stores.saver, log)
	}
	wsHandler := transport.NewWSHandler(newService, log)

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
		log.WithField("port", finalPort).Info("starting quizzing server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// storageSet bundles the backend-specific implementations behind the
// interfaces the rest of the wiring needs.
type storageSet struct {
	accounts account.Store
	quizzes  memory.QuizLoader
	saver    app.QuizSaver
	redis    *redis.Client
	pool     *pgxpool.Pool
}

func (s *storageSet) close() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

func buildStores(ctx context.Context, cfg config.Config, log *logrus.Entry) (*storageSet, error) {
	switch cfg.Storage.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		qs := redisstore.NewQuizStore(client)
		return &storageSet{
			accounts: redisstore.NewAccountStore(client),
			quizzes:  qs,
			saver:    qs,
			redis:    client,
		}, nil

	case "postgres":
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Storage.Postgres.URL)
		if err != nil {
			return nil, err
		}
		qs := pgstore.NewQuizStore(pool)
		return &storageSet{
			accounts: pgstore.NewAccountStore(pool),
			quizzes:  qs,
			saver:    qs,
			pool:     pool,
		}, nil

	case "file":
		dir := cfg.Storage.DataDir
		if dir == "" {
			dir = "data"
		}
		as, err := filestore.NewAccountStore(dir)
		if err != nil {
			return nil, err
		}
		qs, err := filestore.NewQuizStore(dir)
		if err != nil {
			return nil, err
		}
		return &storageSet{accounts: as, quizzes: qs, saver: qs}, nil

	default:
		log.Warn("no durable storage configured, accounts are lost on restart")
		qs := memory.NewQuizStore()
		return &storageSet{
			accounts: memory.NewAccountStore(),
			quizzes:  qs,
			saver:    qs,
		}, nil
	}
}
