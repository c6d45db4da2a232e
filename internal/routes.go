package internal

import (
	"net/http"
	"popcorn/internal/controllers"
	"popcorn/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/search", http.HandlerFunc(apiController.Search))
	routers.Get("/api/details/{id}", http.HandlerFunc(apiController.SelectMovie))
	routers.Delete("/api/details", http.HandlerFunc(apiController.CloseMovie))
	routers.Post("/api/rating", http.HandlerFunc(apiController.Rate))
	routers.Post("/api/watched/toggle", http.HandlerFunc(apiController.ToggleWatched))
	routers.Get("/api/watched/stats", http.HandlerFunc(apiController.GetStats))
	routers.Get("/api/watched", http.HandlerFunc(apiController.GetWatched))
	routers.Delete("/api/watched/{id}", http.HandlerFunc(apiController.DeleteWatched))
	routers.Delete("/api/watched", http.HandlerFunc(apiController.ClearWatched))
	routers.Get("/api/state", http.HandlerFunc(apiController.GetState))
	return routers
}
