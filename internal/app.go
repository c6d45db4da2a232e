package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"popcorn/internal/controllers"
	"popcorn/internal/models"
	"popcorn/internal/providers"
	"popcorn/internal/structures"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server
	logger    providers.Logger
}

// NewHandler mounts the API routes behind the metrics and request log
// middleware, next to the health and metrics endpoints.
func NewHandler(router providers.RouterProviderInterface, healthController *controllers.HealthController, conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) http.Handler {
	root := mux.NewRouter()
	root.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		root.Handle("/metrics", promhttp.Handler())
	}

	api := root.NewRoute().Subrouter()
	for _, route := range router.GetRoutes() {
		api.Handle(route.Url, route.Handler).Methods(route.Method)
	}
	api.Use(func(next http.Handler) http.Handler {
		return providers.MetricsMiddleware(metrics, next)
	})

	return providers.RequestLogMiddleware(logger, root)
}

func NewApp(handler http.Handler, store *models.WatchedListStore, conf *structures.Config, logger providers.Logger) (*App, error) {
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)

	if err := store.Load(); err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      handler,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: conf.Omdb.Timeout + 10*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}, nil
}

// Run serves until SIGINT or SIGTERM and then shuts the server down.
func (app *App) Run() error {
	serverErr := make(chan error, 1)
	go func() {
		app.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", app.WebServer.Addr)
		if err := app.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		app.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.WebServer.Shutdown(ctx); err != nil {
		return err
	}
	app.logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}
