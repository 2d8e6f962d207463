package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-party/docs"

	mem "pet-party/internal/adapters/storage/memory"
	"pet-party/internal/domain/pets"
	"pet-party/internal/middleware"
	"pet-party/internal/platform/config"
	"pet-party/internal/platform/logger"
	"pet-party/internal/platform/metrics"
	"pet-party/internal/ports/auth"
	"pet-party/internal/ports/storage"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: backend key-value. Si no viene, in-memory con config.DefaultQuotaBytes.
	KV storage.KeyValue

	Logger  logger.Logger
	Metrics metrics.Recorder

	// MetricsHandler se monta en /metrics si no es nil.
	MetricsHandler http.Handler
	Swagger        bool
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}
	if opts.Swagger {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	kv := opts.KV
	if kv == nil {
		kv = mem.NewKV(config.DefaultQuotaBytes)
	}

	petsSvc := pets.NewService(kv, log, opts.Metrics)
	pets.RegisterRoutes(r, petsSvc)

	return r
}
