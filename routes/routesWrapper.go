package routes

import (
	"github.com/julienschmidt/httprouter"

	"skouce/ratelim"
	"skouce/storefront"
)

func RoutesWrapper(router *httprouter.Router, h *storefront.Handler, rateLimiter *ratelim.RateLimiter) {
	AddSessionRoutes(router, h, rateLimiter)
	AddCatalogRoutes(router, h)
	AddFilterRoutes(router, h)
	AddCompareRoutes(router, h)
	AddWishlistRoutes(router, h, rateLimiter)
	AddCartRoutes(router, h)
	AddCheckoutRoutes(router, h, rateLimiter)
	AddAssistantRoutes(router, h, rateLimiter)
	AddTryOnRoutes(router, h, rateLimiter)
}
