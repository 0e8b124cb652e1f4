package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/rally/config"
	_ "github.com/DhavalSuthar-24/rally/docs"
	"github.com/DhavalSuthar-24/rally/internal/game"
	"github.com/DhavalSuthar-24/rally/internal/memstore"
	"github.com/DhavalSuthar-24/rally/internal/metrics"
	"github.com/DhavalSuthar-24/rally/internal/notify"
	"github.com/DhavalSuthar-24/rally/internal/pairing"
	"github.com/DhavalSuthar-24/rally/internal/profile"
	"github.com/DhavalSuthar-24/rally/internal/sweeper"
	"github.com/DhavalSuthar-24/rally/internal/waitlist"
	"github.com/DhavalSuthar-24/rally/routes"
)

// storage bundles the repositories of one backend.
type storage struct {
	games    game.Repository
	requests pairing.Repository
	waitlist waitlist.Repository
	notifier notify.Notifier
	ping     func(ctx context.Context) error
}

func openPostgres(cfg *config.Config, log *logrus.Entry) (*storage, error) {
	db, err := config.ConnectDB(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	log.Info("AutoMigrate successful")

	return &storage{
		games:    game.NewGormRepository(db),
		requests: pairing.NewGormRepository(db),
		waitlist: waitlist.NewGormRepository(db),
		notifier: notify.NewGormNotifier(db),
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}, nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&game.Game{}, &game.Participant{},
		&profile.PlayerRating{},
		&notify.Notification{},
	)
	if err != nil {
		return err
	}
	if err := pairing.Migrate(db); err != nil {
		return err
	}
	return waitlist.Migrate(db)
}

func openMemory(log *logrus.Entry) *storage {
	log.Warn("using the in-memory store; data is lost on restart")
	s := memstore.New()
	return &storage{
		games:    s.Games(),
		requests: s.Requests(),
		waitlist: s.Waitlist(),
		notifier: &notify.Recorder{},
	}
}

// @title Rally API
// @version 1.0
// @description Game lifecycle, ratings, matchmaking and event waitlists.
// @host localhost:8088
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := config.NewLogger(cfg)

	var st *storage
	switch cfg.DB.Driver {
	case config.DriverMemory:
		st = openMemory(log)
	default:
		st, err = openPostgres(cfg, log)
		if err != nil {
			log.WithError(err).Fatal("failed to open database")
		}
	}

	var publisher notify.Publisher = notify.Nop{}
	if cfg.Redis.Addr != "" {
		client := notify.NewRedisClient(notify.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := client.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable, events will be retried per publish")
		}
		cancel()
		publisher = notify.NewRedisPublisher(client, cfg.Redis.ChannelPrefix)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)
	events := notify.NewDispatcher(st.notifier, publisher, log.WithField("component", "notify"))

	capacity := &waitlist.StaticCapacity{
		Default: cfg.Rating.DefaultEventCapacity,
		Limits:  cfg.Rating.EventCapacities,
		Counter: st.waitlist,
	}
	games := game.NewService(st.games, events, m, log)
	pairings := pairing.NewService(st.requests, games, events, m, log)
	waitlists := waitlist.NewService(st.waitlist, capacity, cfg.Rating.WaitlistOfferTTL, events, m, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sw := sweeper.New(cfg.Rating.SweepInterval, log,
		sweeper.Job{Name: "match_request", Run: pairings.ExpireStale},
		sweeper.Job{Name: "waitlist_offer", Run: waitlists.SweepExpiredOffers},
	)
	go sw.Start(ctx)

	r := routes.SetupRoutes(routes.Deps{
		Config:   cfg,
		Log:      log,
		Games:    games,
		Pairing:  pairings,
		Waitlist: waitlists,
		Gatherer: reg,
		Ping:     st.ping,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.App.Port, "env": cfg.App.Env}).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to run server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
