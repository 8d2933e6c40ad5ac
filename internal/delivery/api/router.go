package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"marcador/internal/application"
	"marcador/internal/models"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const healthTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// LiveFeed upgrades a request into a live update stream. A zero match id
// follows every match.
type LiveFeed interface {
	Serve(w http.ResponseWriter, r *http.Request, matchID int)
}

type Handler struct {
	services       *application.Service
	db             Pinger
	live           LiveFeed
	metrics        *Metrics
	log            Logger
	allowedOrigins []string
}

type HandlerDeps struct {
	Services       *application.Service
	DB             Pinger
	Live           LiveFeed
	Metrics        *Metrics
	Logger         Logger
	AllowedOrigins []string
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		services:       deps.Services,
		db:             deps.DB,
		live:           deps.Live,
		metrics:        deps.Metrics,
		log:            deps.Logger,
		allowedOrigins: deps.AllowedOrigins,
	}
}

// Routes builds the full HTTP surface wrapped in CORS.
func (h *Handler) Routes() http.Handler {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware, recoverMiddleware(h.log), accessLogMiddleware(h.log, h.metrics))

	router.HandleFunc("/health", h.health).Methods(http.MethodGet)
	if h.metrics != nil {
		router.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)
	}
	if h.live != nil {
		router.HandleFunc("/ws/partidos", h.liveAll)
		router.HandleFunc("/ws/partidos/{id:[0-9]+}", h.liveMatch)
	}

	admin := router.PathPrefix("/api/admin").Subrouter()

	partidos := admin.PathPrefix("/partidos").Subrouter()
	partidos.HandleFunc("", h.listMatches).Methods(http.MethodGet)
	partidos.HandleFunc("", h.createMatch).Methods(http.MethodPost)
	partidos.HandleFunc("/historial", h.history).Methods(http.MethodGet)
	partidos.HandleFunc("/{id:[0-9]+}", h.getMatch).Methods(http.MethodGet)
	partidos.HandleFunc("/{id:[0-9]+}", h.updateMatch).Methods(http.MethodPut)
	partidos.HandleFunc("/{id:[0-9]+}", h.deleteMatch).Methods(http.MethodDelete)
	partidos.HandleFunc("/{id:[0-9]+}/reset", h.deleteMatch).Methods(http.MethodDelete)
	partidos.HandleFunc("/{id:[0-9]+}/estado", h.setStatus).Methods(http.MethodPatch)
	partidos.HandleFunc("/{id:[0-9]+}/iniciar", h.startMatch).Methods(http.MethodPost)
	partidos.HandleFunc("/{id:[0-9]+}/finalizar", h.finishMatch).Methods(http.MethodPost)
	partidos.HandleFunc("/{id:[0-9]+}/suspender", h.suspendMatch).Methods(http.MethodPost)
	partidos.HandleFunc("/{id:[0-9]+}/marcador", h.currentScore).Methods(http.MethodGet)
	partidos.HandleFunc("/{id:[0-9]+}/anotaciones/ajustar", h.adjustScore).Methods(http.MethodPost)
	partidos.HandleFunc("/{id:[0-9]+}/eventos", h.listEvents).Methods(http.MethodGet)
	partidos.HandleFunc("/{id:[0-9]+}/roster", h.getRoster).Methods(http.MethodGet)
	partidos.HandleFunc("/{id:[0-9]+}/roster", h.saveRoster).Methods(http.MethodPut)

	admin.HandleFunc("/inicio/kpis", h.kpis).Methods(http.MethodGet)
	admin.HandleFunc("/inicio/proximo", h.nextMatch).Methods(http.MethodGet)
	admin.HandleFunc("/estadisticas/dashboard", h.dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/estadisticas/partidos-por-mes", h.monthlyStats).Methods(http.MethodGet)
	admin.HandleFunc("/reportes/historial.xlsx", h.exportHistory).Methods(http.MethodGet)
	admin.HandleFunc("/reportes/sync", h.syncHistory).Methods(http.MethodPost)

	equipos := admin.PathPrefix("/equipos").Subrouter()
	equipos.HandleFunc("", h.listTeams).Methods(http.MethodGet)
	equipos.HandleFunc("", h.createTeam).Methods(http.MethodPost)
	equipos.HandleFunc("/{id:[0-9]+}", h.getTeam).Methods(http.MethodGet)
	equipos.HandleFunc("/{id:[0-9]+}", h.updateTeam).Methods(http.MethodPut)
	equipos.HandleFunc("/{id:[0-9]+}", h.deactivateTeam).Methods(http.MethodDelete)
	equipos.HandleFunc("/{id:[0-9]+}/activar", h.activateTeam).Methods(http.MethodPost)
	equipos.HandleFunc("/{id:[0-9]+}/jugadores", h.listTeamPlayers).Methods(http.MethodGet)

	jugadores := admin.PathPrefix("/jugadores").Subrouter()
	jugadores.HandleFunc("", h.createPlayer).Methods(http.MethodPost)
	jugadores.HandleFunc("/{id:[0-9]+}", h.getPlayer).Methods(http.MethodGet)
	jugadores.HandleFunc("/{id:[0-9]+}", h.updatePlayer).Methods(http.MethodPut)
	jugadores.HandleFunc("/{id:[0-9]+}", h.deactivatePlayer).Methods(http.MethodDelete)

	c := cors.New(cors.Options{
		AllowedOrigins: h.allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader, "Content-Disposition"},
	})
	return c.Handler(router)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: "ok"}
	status := http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.log.Warn("health check: database unreachable: %v", err)
			resp = healthResponse{Status: "degraded", Database: "unreachable"}
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, resp, h.log)
}

func (h *Handler) liveAll(w http.ResponseWriter, r *http.Request) {
	h.live.Serve(w, r, 0)
}

func (h *Handler) liveMatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	h.live.Serve(w, r, id)
}

// pathID reads the numeric {id} route variable.
func pathID(r *http.Request) (int, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, models.InvalidArgument("invalid id %q", raw)
	}
	return id, nil
}
