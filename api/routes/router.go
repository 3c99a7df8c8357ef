package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rallycommand/rallycommand-backend/api/controllers"
	"github.com/rallycommand/rallycommand-backend/api/middleware"
	"github.com/rallycommand/rallycommand-backend/internal/account"
	"github.com/rallycommand/rallycommand-backend/internal/auth"
	"github.com/rallycommand/rallycommand-backend/internal/dashboard"
	"github.com/rallycommand/rallycommand-backend/internal/feedback"
	"github.com/rallycommand/rallycommand-backend/internal/inventory"
	"github.com/rallycommand/rallycommand-backend/internal/preferences"
	"github.com/rallycommand/rallycommand-backend/internal/repairs"
	"github.com/rallycommand/rallycommand-backend/internal/setups"
	"github.com/rallycommand/rallycommand-backend/internal/stocktake"
	"github.com/rallycommand/rallycommand-backend/internal/usage"
	"github.com/rallycommand/rallycommand-backend/internal/vehicles"
	"github.com/rallycommand/rallycommand-backend/pkg/auth/session"
	"github.com/rallycommand/rallycommand-backend/pkg/config"
	"github.com/rallycommand/rallycommand-backend/pkg/db"
	"github.com/rallycommand/rallycommand-backend/pkg/logger"
	"github.com/rallycommand/rallycommand-backend/pkg/metrics"
	"github.com/rallycommand/rallycommand-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Registry *prometheus.Registry

	Sessions    session.AccessSessionChecker
	HTTPMetrics *metrics.HTTPMetrics

	Auth        auth.Service
	Register    auth.RegisterService
	Inventory   inventory.Service
	Usage       usage.Service
	Vehicles    vehicles.Service
	Setups      setups.Service
	Repairs     repairs.Service
	Stocktake   stocktake.Service
	Dashboard   dashboard.Service
	Account     account.Service
	Feedback    feedback.Service
	Preferences preferences.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	// a nil concrete client must stay nil as an interface so the
	// idempotency middleware disables itself
	var idemStore redis.IdempotencyStore
	if deps.Redis != nil {
		idemStore = deps.Redis
	}
	idempotency := middleware.Idempotency(idemStore, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg), idempotency).Post("/register", controllers.Register(deps.Register, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.Login(deps.Auth, logg))
	})

	r.Post("/api/v1/feedback", controllers.FeedbackCreate(deps.Feedback, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(idempotency)

		r.Post("/auth/logout", controllers.Logout(deps.Auth, logg))
		r.Get("/auth/me", controllers.Me(deps.Auth, logg))

		r.Get("/dashboard/stats", controllers.DashboardStats(deps.Dashboard, logg))

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(deps.Inventory, logg))
			r.Post("/", controllers.InventoryCreate(deps.Inventory, logg))
			r.Get("/{id}", controllers.InventoryGet(deps.Inventory, logg))
			r.Put("/{id}", controllers.InventoryUpdate(deps.Inventory, logg))
			r.Delete("/{id}", controllers.InventoryDelete(deps.Inventory, logg))
		})

		r.Route("/usage", func(r chi.Router) {
			r.Post("/", controllers.UsageCreate(deps.Usage, logg))
			r.Get("/item/{itemId}", controllers.UsageListByItem(deps.Usage, logg))
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", controllers.VehiclesList(deps.Vehicles, logg))
			r.Post("/", controllers.VehiclesCreate(deps.Vehicles, logg))
			r.Get("/{id}", controllers.VehiclesGet(deps.Vehicles, logg))
			r.Put("/{id}", controllers.VehiclesUpdate(deps.Vehicles, logg))
			r.Delete("/{id}", controllers.VehiclesDelete(deps.Vehicles, logg))
		})

		r.Route("/setups", func(r chi.Router) {
			r.Get("/", controllers.SetupsList(deps.Setups, logg))
			r.Post("/", controllers.SetupsCreate(deps.Setups, logg))
			r.Get("/vehicle/{vehicleId}", controllers.SetupsListByVehicle(deps.Setups, logg))
			r.Get("/{id}", controllers.SetupsGet(deps.Setups, logg))
			r.Put("/{id}", controllers.SetupsUpdate(deps.Setups, logg))
			r.Delete("/{id}", controllers.SetupsDelete(deps.Setups, logg))
		})

		r.Route("/setup-groups", func(r chi.Router) {
			r.Post("/", controllers.SetupGroupsCreate(deps.Setups, logg))
			r.Get("/vehicle/{vehicleId}", controllers.SetupGroupsListByVehicle(deps.Setups, logg))
			r.Put("/{id}", controllers.SetupGroupsUpdate(deps.Setups, logg))
			r.Delete("/{id}", controllers.SetupGroupsDelete(deps.Setups, logg))
		})

		r.Route("/repairs", func(r chi.Router) {
			r.Get("/", controllers.RepairsList(deps.Repairs, logg))
			r.Post("/", controllers.RepairsCreate(deps.Repairs, logg))
			r.Get("/vehicle/{vehicleId}", controllers.RepairsListByVehicle(deps.Repairs, logg))
			r.Get("/{id}", controllers.RepairsGet(deps.Repairs, logg))
			r.Put("/{id}", controllers.RepairsUpdate(deps.Repairs, logg))
			r.Delete("/{id}", controllers.RepairsDelete(deps.Repairs, logg))
		})

		r.Route("/stocktakes", func(r chi.Router) {
			r.Get("/", controllers.StocktakeList(deps.Stocktake, logg))
			r.Post("/", controllers.StocktakeSave(deps.Stocktake, logg))
			r.Route("/session", func(r chi.Router) {
				r.Post("/", controllers.StocktakeSessionStart(deps.Stocktake, logg))
				r.Get("/", controllers.StocktakeSessionGet(deps.Stocktake, logg))
				r.Delete("/", controllers.StocktakeSessionAbandon(deps.Stocktake, logg))
				r.Put("/mode", controllers.StocktakeSessionMode(deps.Stocktake, logg))
				r.Put("/lines/{index}", controllers.StocktakeSessionRecordLine(deps.Stocktake, logg))
				r.Get("/summary", controllers.StocktakeSessionSummary(deps.Stocktake, logg))
				r.Post("/resume", controllers.StocktakeSessionResume(deps.Stocktake, logg))
			})
			r.Get("/{id}", controllers.StocktakeGet(deps.Stocktake, logg))
			r.Delete("/{id}", controllers.StocktakeDelete(deps.Stocktake, logg))
			r.Post("/{id}/apply", controllers.StocktakeApply(deps.Stocktake, logg))
		})

		r.Route("/account", func(r chi.Router) {
			r.Get("/", controllers.AccountGet(deps.Account, logg))
			r.Put("/", controllers.AccountUpdate(deps.Account, logg))
			r.Delete("/", controllers.AccountDelete(deps.Account, logg))
			r.Get("/export", controllers.AccountExport(deps.Account, logg))
			r.Post("/import", controllers.AccountImport(deps.Account, logg))
		})

		r.Route("/preferences/vehicle-filter", func(r chi.Router) {
			r.Get("/", controllers.PreferencesVehicleFilterGet(deps.Preferences, logg))
			r.Put("/", controllers.PreferencesVehicleFilterSet(deps.Preferences, logg))
			r.Delete("/", controllers.PreferencesVehicleFilterClear(deps.Preferences, logg))
		})
	})

	return r
}
