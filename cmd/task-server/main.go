// Здесь только:
// - создание зависимостей;
// - настройка middleware;
// - запуск и остановка HTTP-сервера.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-manager/internal/config"
	"task-manager/internal/logger"
	appMiddleware "task-manager/internal/middleware"
	"task-manager/internal/tasks"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	log := logger.Init("task-server", cfg.LogLevel)

	// Хранилище инициализируется один раз на процесс и закрывается
	// при остановке. Никаких неявных глобалов.
	repo, err := newRepository(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to init task store")
	}

	svc := tasks.NewService(repo)
	handler := tasks.NewHandler(svc, log)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(appMiddleware.LoggingMiddleware(log))
	r.Use(appMiddleware.MetricsMiddleware)

	r.Get("/", liveness)
	r.Get("/healthz", healthz(repo))
	r.Handle("/metrics", appMiddleware.MetricsHandler())
	r.Mount("/api/tasks", handler.Routes())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithFields(logrus.Fields{
			"port":   cfg.Port,
			"driver": cfg.Storage.Driver,
		}).Info("server starting")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server start error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown error")
	}
	if err := repo.Close(); err != nil {
		log.WithError(err).Error("store close error")
	}
	log.Info("stopped")
}

// newRepository выбирает движок хранения по конфигурации.
func newRepository(cfg *config.Config) (tasks.Repository, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		return tasks.NewPostgresStore(cfg.Storage.DatabaseURL)
	case "file":
		return tasks.NewFileStore(cfg.Storage.File), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// liveness — признак, что процесс жив и роутер отвечает.
func liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message": "Task Management API is running",
	})
}

// healthz дополнительно проверяет доступность хранилища.
func healthz(repo tasks.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := repo.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "store unavailable"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
