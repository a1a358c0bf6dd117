package router

import (
	"database/sql"
	"net/http"
	"os"

	"livestock-traceability/internal/domain/cattle"
	"livestock-traceability/internal/domain/events"
	"livestock-traceability/internal/domain/importer"
	"livestock-traceability/internal/domain/owners"
	"livestock-traceability/internal/domain/reports"
	"livestock-traceability/internal/middleware"
	"livestock-traceability/internal/platform/logger"
	"livestock-traceability/internal/ports/blob"
	"livestock-traceability/internal/ports/geocode"

	mem "livestock-traceability/internal/adapters/storage/memory"
	pg "livestock-traceability/internal/adapters/storage/postgres"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// SERVICE_ROLE_KEY para el importador masivo.
	ServiceKey string

	// Opcional: store de fotos. Si es nil, el endpoint de fotos devuelve 503.
	Photos blob.Store

	// Opcional: geocodificador para el mapa de propietarios.
	Geocoder geocode.Resolver

	CORSAllowedOrigins []string

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	allowed := opts.CORSAllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	r.Use(cors.New(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	log := opts.Logger
	if log == nil {
		log = logger.Nop{}
	}

	var (
		ownersRepo owners.Repository
		cattleRepo cattle.Repository
		eventsRepo events.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("db open failed, falling back to memory", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		ownersRepo = pg.NewOwnersRepo(db)
		cattleRepo = pg.NewCattleRepo(db)
		eventsRepo = pg.NewEventsRepo(db)
	} else {
		ownersRepo = mem.NewOwnersRepo()
		cattleRepo = mem.NewCattleRepo()
		eventsRepo = mem.NewEventsRepo()
	}

	// Services por módulo
	ownersSvc := owners.NewService(ownersRepo)
	eventsSvc := events.NewService(eventsRepo)
	cattleSvc := cattle.NewService(cattleRepo, eventsSvc)
	importSvc := importer.NewService(ownersRepo, cattleRepo, eventsRepo, log)
	reportsSvc := reports.NewService(ownersRepo, cattleRepo, eventsRepo)

	// Rutas por módulo
	owners.RegisterRoutes(r, ownersSvc, opts.Geocoder)
	cattle.RegisterRoutes(r, cattleSvc, opts.Photos)
	events.RegisterRoutes(r, eventsSvc, cattleSvc)
	importer.RegisterRoutes(r, importSvc, importer.Options{ServiceKey: opts.ServiceKey})
	reports.RegisterRoutes(r, reportsSvc)

	return r
}
