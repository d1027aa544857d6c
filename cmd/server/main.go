package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/MarvelUsoroh/naijawhot/internal/broadcast"
	"github.com/MarvelUsoroh/naijawhot/internal/config"
	"github.com/MarvelUsoroh/naijawhot/internal/history"
	"github.com/MarvelUsoroh/naijawhot/internal/room"
	"github.com/MarvelUsoroh/naijawhot/internal/server"
	"github.com/MarvelUsoroh/naijawhot/internal/store"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("bad REDIS_URL")
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancel()
		log.WithError(err).Fatal("redis unreachable")
	}
	cancel()

	var rec *history.Recorder
	if cfg.DatabaseURL != "" {
		rec, err = history.New(context.Background(), cfg.DatabaseURL, log)
		if err != nil {
			// Analytics is best effort; the game runs without it.
			log.WithError(err).Warn("analytics store unavailable")
			rec = nil
		}
	}

	roomStore := store.NewDebounced(store.NewRedisStore(rdb), cfg.FlushInterval, cfg.MaxPendingRooms, log)
	bus := broadcast.NewRedisBroadcaster(rdb, log)
	svc := room.New(roomStore, bus, log,
		room.WithTurnTimeout(cfg.TurnTimeout),
		room.WithHistory(rec),
	)

	mux := http.NewServeMux()
	mux.Handle("/ws", server.New(svc, bus, log))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	httpServer := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		log.WithField("addr", cfg.Addr).Info("naijawhot listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	_ = httpServer.Shutdown(shutdownCtx)
	svc.Close()
	roomStore.Close()
	rec.Close()
	_ = rdb.Close()
}
