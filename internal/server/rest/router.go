package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/storjvault/internal/logging"
	"github.com/dmitrijs2005/storjvault/internal/server/metrics"
	"github.com/dmitrijs2005/storjvault/internal/server/services"
	"github.com/dmitrijs2005/storjvault/internal/server/signaling"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Services are the backends the router dispatches to.
type Services struct {
	Vaults      *services.VaultService
	Files       *services.FileService
	Compression *services.CompressionService
	Health      *services.HealthService
	Relay       *signaling.Relay
}

type Options struct {
	MaxUploadSize int64
	AllowOrigin   string
	PresignExpiry time.Duration
}

type handler struct {
	vaults      *services.VaultService
	files       *services.FileService
	compression *services.CompressionService
	health      *services.HealthService
	relay       *signaling.Relay
	metrics     *metrics.Metrics
	logger      logging.Logger
	opts        Options
}

// NewRouter builds the HTTP API.
func NewRouter(svc Services, m *metrics.Metrics, opts Options, logger logging.Logger) http.Handler {
	h := &handler{
		vaults:      svc.Vaults,
		files:       svc.Files,
		compression: svc.Compression,
		health:      svc.Health,
		relay:       svc.Relay,
		metrics:     m,
		logger:      logger.With("module", "rest"),
		opts:        opts,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(h.accessLog)
	r.Use(cors(opts.AllowOrigin))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not Found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method Not Allowed"})
	})

	r.Get("/health", h.healthCheck)
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Post("/vault/register", h.register)
	r.Post("/vault/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Get("/vault/check-auth", h.checkAuth)

		r.Post("/upload", h.upload)
		r.Get("/list", h.list)
		r.Post("/folder", h.createFolder)
		r.Get("/f/*", h.download)
		r.Get("/stream/*", h.stream)
		r.Get("/preview/*", h.preview)
		r.Get("/file/*", h.properties)
		r.Delete("/file/*", h.deleteItem)
		r.Put("/file/*", h.renameOrMove)

		r.Get("/can-compress/*", h.canCompress)
		r.Post("/compress/*", h.compress)
		r.Get("/compressed/*", h.downloadCompressed)

		r.Post("/signal", h.newSignalSession)
		r.Route("/signal/{session}", func(r chi.Router) {
			r.Post("/", h.postSignal)
			r.Get("/", h.pollSignal)
			r.Delete("/", h.closeSignal)
		})
	})

	return r
}

// vaultPrefix is only called behind authenticate.
func vaultPrefix(r *http.Request) string {
	p, _ := VaultPrefixFromContext(r.Context())
	return p
}
