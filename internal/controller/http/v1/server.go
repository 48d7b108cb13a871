package v1

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kurochkinivan/iot_center/internal/config"
)

type Services struct {
	Groups  GroupService
	Devices DeviceService
	Sensors SensorService
	Configs ConfigService
	Health  HealthChecker
}

type Server struct {
	httpServer *http.Server
}

func NewServer(cfg config.HTTP, log *slog.Logger, services Services, metrics Metrics) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
			Handler:      NewRouter(log, services, metrics),
		},
	}
}

// NewRouter builds the API routes. metrics may be nil.
func NewRouter(log *slog.Logger, services Services, metrics Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if metrics != nil {
		r.Use(observe(metrics))
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	health := NewHealthHandler(log, services.Health)
	r.Get("/health", health.Live)
	r.Get("/health/ready", health.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/groups", NewGroupsHandler(log, services.Groups).Routes)
		r.Route("/dtu", NewDevicesHandler(log, services.Devices).Routes)
		r.Route("/sensors", NewSensorsHandler(log, services.Sensors).Routes)
		r.Route("/mb-rtu", NewConfigsHandler(log, services.Configs).Routes)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{Message: "method not allowed"})
	})

	return r
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
