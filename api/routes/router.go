package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/plantswapio/plantswap-backend/api/controllers"
	"github.com/plantswapio/plantswap-backend/api/middleware"
	"github.com/plantswapio/plantswap-backend/internal/auth"
	"github.com/plantswapio/plantswap-backend/internal/interests"
	"github.com/plantswapio/plantswap-backend/internal/matching"
	"github.com/plantswapio/plantswap-backend/internal/notifications"
	"github.com/plantswapio/plantswap-backend/internal/plants"
	"github.com/plantswapio/plantswap-backend/internal/taxonomy"
	"github.com/plantswapio/plantswap-backend/internal/trades"
	"github.com/plantswapio/plantswap-backend/pkg/config"
	"github.com/plantswapio/plantswap-backend/pkg/logger"
	"github.com/plantswapio/plantswap-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	healthDeps map[string]controllers.Pinger,
	authService auth.Service,
	taxonomyService taxonomy.Service,
	plantService plants.Service,
	interestService interests.Service,
	matchingService matching.Service,
	tradeService trades.Service,
	notificationService notifications.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(),
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

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, healthDeps))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/taxonomy", func(r chi.Router) {
			r.Post("/families", controllers.CreateFamily(taxonomyService, logg))
			r.Post("/genera", controllers.CreateGenus(taxonomyService, logg))
			r.Route("/species", func(r chi.Router) {
				r.Post("/", controllers.CreateSpecies(taxonomyService, logg))
				r.Get("/search", controllers.SearchSpecies(taxonomyService, logg))
				r.Get("/{speciesId}", controllers.GetSpecies(taxonomyService, logg))
				r.Get("/{speciesId}/full-name", controllers.SpeciesFullName(taxonomyService, logg))
				r.Get("/{speciesId}/split-name", controllers.SpeciesSplitName(taxonomyService, logg))
			})
		})

		r.Route("/v1/plants", func(r chi.Router) {
			r.Post("/", controllers.CreatePlant(plantService, logg))
			r.Get("/", controllers.ListPlants(plantService, logg))
			r.Get("/{plantId}", controllers.GetPlant(plantService, logg))
			r.Delete("/{plantId}", controllers.DeletePlant(plantService, logg))
			r.Post("/{plantId}/tradeable", controllers.MakePlantTradeable(plantService, logg))
			r.Delete("/{plantId}/tradeable", controllers.MakePlantUntradeable(plantService, logg))
		})

		r.Route("/v1/interests", func(r chi.Router) {
			r.Post("/", controllers.AddInterest(interestService, logg))
			r.Get("/", controllers.ListInterests(interestService, logg))
			r.Delete("/{interestId}", controllers.RemoveInterest(interestService, logg))
		})

		r.Route("/v1/matches", func(r chi.Router) {
			r.Get("/", controllers.AllPossibleTrades(matchingService, logg))
			r.Get("/species/{speciesId}", controllers.TradeMatchesForSpecies(matchingService, logg))
			r.Get("/species/{speciesId}/giving", controllers.PossibleTradesForSpecies(matchingService, logg))
			r.Get("/species/{speciesId}/receiving", controllers.PossibleTradesToGetSpecies(matchingService, logg))
		})

		r.Route("/v1/trades", func(r chi.Router) {
			r.Post("/", controllers.CreateTrade(tradeService, logg))
			r.Get("/", controllers.ListTrades(tradeService, logg))
			r.Get("/{tradeId}", controllers.GetTrade(tradeService, logg))
			r.Post("/{tradeId}/suggestions", controllers.CounterSuggestion(tradeService, logg))
			r.Post("/{tradeId}/suggestions/{suggestionId}/accept", controllers.AcceptSuggestion(tradeService, logg))
			r.Post("/{tradeId}/suggestions/{suggestionId}/decline", controllers.DeclineSuggestion(tradeService, logg))
			r.Post("/{tradeId}/cancel", controllers.CancelTrade(tradeService, logg))
			r.Post("/{tradeId}/complete", controllers.CompleteTrade(tradeService, logg))
		})

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationService, logg))
			r.Get("/unread-count", controllers.UnreadNotificationCount(notificationService, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationService, logg))
		})
	})

	return r
}
