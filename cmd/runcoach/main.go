package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"runcoach/internal/config"
	"runcoach/internal/database"
	httpapi "runcoach/internal/http"
	"runcoach/internal/logger"
	"runcoach/internal/metrics"
	"runcoach/internal/mqtt"
	"runcoach/internal/realtime"
	"runcoach/internal/redisx"
	"runcoach/internal/repository"
	"runcoach/internal/service"
	"runcoach/internal/simulator"
	"runcoach/internal/sink"
	"runcoach/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	m := metrics.NewMetrics()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 最新样本快照：Redis 可用时写 Redis，否则进程内存
	var kv store.KV = store.NewMemoryKV()
	var sinks []sink.SampleSink
	var redisClient *redis.Client
	if cfg.RedisEnabled {
		c := redisx.NewRedisClient(&cfg.Redis)
		if err := redisx.Ping(ctx, c); err == nil {
			redisClient = c
			kv = store.NewRedisKV(c)
			sinks = append(sinks, sink.NewStreamSink(c, cfg.SampleStream.Name, cfg.SampleStream.MaxLen))
			log.Info("Redis enabled",
				zap.String("addr", cfg.Redis.Addr),
				zap.String("stream", cfg.SampleStream.Name),
			)
		} else {
			_ = c.Close()
			log.Warn("Redis enabled but connection failed, falling back to memory", zap.Error(err))
		}
	}
	sinks = append([]sink.SampleSink{sink.NewSnapshotSink(kv, cfg.Collection.SnapshotTTL)}, sinks...)

	var mqttClient *mqtt.Client
	if cfg.MQTTEnabled {
		if c, err := mqtt.NewClient(&cfg.MQTT, log); err == nil {
			mqttClient = c
			sinks = append(sinks, sink.NewMQTTSink(c, cfg.MQTTTopic))
			log.Info("MQTT enabled", zap.String("broker", cfg.MQTT.Broker), zap.String("topic", cfg.MQTTTopic))
		} else {
			log.Warn("MQTT enabled but connection failed, sample publishing disabled", zap.Error(err))
		}
	}

	var db *sql.DB
	var sessions repository.SessionsRepository = repository.NewMemorySessionsRepo()
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(ctx, &cfg.Database); err == nil {
			repo := repository.NewPostgresSessionsRepo(d, log)
			if err := repo.EnsureSchema(ctx); err != nil {
				log.Warn("Failed to ensure collection_sessions schema, falling back to memory", zap.Error(err))
				_ = d.Close()
			} else {
				db = d
				sessions = repo
				log.Info("DB enabled for collection sessions", zap.String("database", cfg.Database.Database))
			}
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory", zap.Error(err))
		}
	}

	worker := service.NewSinkWorker(sinks, 256, log, m)
	worker.Start(ctx)

	rnd := simulator.NewRand(0)
	hub := realtime.NewHub(log, m)
	collection := service.NewCollectionService(
		simulator.NewSampleGenerator(rnd, nil),
		hub,
		log,
		service.CollectionOptions{
			Interval: cfg.Collection.SampleInterval,
			Sinks:    worker,
			Sessions: sessions,
			Metrics:  m,
		},
	)
	feedback := simulator.NewFeedbackGenerator(rnd, nil)
	history := simulator.NewHistoryGenerator(rnd, nil)

	router := httpapi.NewRouter(log, m)
	router.RegisterCoachRoutes(httpapi.NewCoachHandler(history, simulator.AnalysisReport, feedback, log))
	router.RegisterCollectionRoutes(httpapi.NewCollectionHandler(collection, hub.Count, sessions, kv, log))
	router.RegisterRealtime(realtime.NewHandler(hub, collection, feedback, log))
	router.RegisterOpsRoutes()
	router.RegisterStatic(httpapi.NewStaticHandler(cfg.HTTP.StaticDir, log))

	srv := service.NewServer(cfg.HTTP.Addr, router.Handler(cfg.HTTP.CORSAllowedOrigins), log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	collection.Stop(shutdownCtx)
	hub.Close()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown incomplete", zap.Error(err))
	}
	cancel()
	worker.Wait()

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if mqttClient != nil {
		mqttClient.Disconnect()
	}
	if db != nil {
		_ = db.Close()
	}
}
