package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/opentransit/stationwatch/internal/service"
	"github.com/opentransit/stationwatch/internal/store"
	"github.com/opentransit/stationwatch/pkg/httpx"
	"github.com/opentransit/stationwatch/pkg/sessionx"
	"github.com/opentransit/stationwatch/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        *sessionx.Codec
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store           store.Store
	SignInService   *service.SignInService
	StationService  *service.StationService
	ReportService   *service.ReportService
	FavoriteService *service.FavoriteService
}

func NewRouter(
	codec *sessionx.Codec,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerStations()
	r.registerReports()
	r.registerFavorites()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	authHandler := &AuthHandler{
		SignInService: r.SignInService,
	}

	// POST /v1/auth/signin - strict rate limit (drives outbound provider calls)
	r.Mux.Handle("POST /v1/auth/signin",
		httpx.Chain(http.HandlerFunc(authHandler.HandleSignIn),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /v1/auth/verify - moderate rate limit (clients poll on navigation)
	r.Mux.Handle("POST /v1/auth/verify",
		httpx.Chain(http.HandlerFunc(authHandler.HandleVerify),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /v1/auth/logout - moderate rate limit
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(authHandler.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerStations() {
	stationsHandler := &StationsHandler{
		StationService: r.StationService,
	}

	// Station data is public and heavily polled by map clients.
	r.Mux.Handle("GET /v1/stations",
		httpx.Chain(http.HandlerFunc(stationsHandler.HandleList),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /v1/stations/{id}",
		httpx.Chain(http.HandlerFunc(stationsHandler.HandleGet),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerReports() {
	reportsHandler := &ReportsHandler{
		ReportService: r.ReportService,
	}

	r.Mux.Handle("GET /v1/stations/{id}/reports",
		httpx.Chain(http.HandlerFunc(reportsHandler.HandleListByStation),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /v1/reports/recent",
		httpx.Chain(http.HandlerFunc(reportsHandler.HandleListRecent),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	// POST /v1/reports - authenticated, moderate rate limit per user
	r.Mux.Handle("POST /v1/reports",
		httpx.Chain(http.HandlerFunc(reportsHandler.HandleCreate),
			httpx.SessionMiddleware(r.codec),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /v1/me/reports",
		httpx.Chain(http.HandlerFunc(reportsHandler.HandleListMine),
			httpx.SessionMiddleware(r.codec),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerFavorites() {
	favoritesHandler := &FavoritesHandler{
		FavoriteService: r.FavoriteService,
	}

	r.Mux.Handle("POST /v1/favorites/toggle",
		httpx.Chain(http.HandlerFunc(favoritesHandler.HandleToggle),
			httpx.SessionMiddleware(r.codec),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/favorites",
		httpx.Chain(http.HandlerFunc(favoritesHandler.HandleList),
			httpx.SessionMiddleware(r.codec),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/favorites/{stationId}",
		httpx.Chain(http.HandlerFunc(favoritesHandler.HandleIsFavorite),
			httpx.SessionMiddleware(r.codec),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
