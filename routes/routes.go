package routes

import (
	"github.com/julienschmidt/httprouter"

	"skouce/middleware"
	"skouce/ratelim"
	"skouce/storefront"
)

func AddSessionRoutes(router *httprouter.Router, h *storefront.Handler, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/session", rateLimiter.Limit(ratelim.RemoteAddr, h.CreateSession))
	router.DELETE("/api/session", middleware.RequireSession(h.Store, h.EndSession))
}

func AddCatalogRoutes(router *httprouter.Router, h *storefront.Handler) {
	router.GET("/api/catalog", h.GetCatalog)
	router.GET("/api/catalog/:id", h.GetProduct)
	router.GET("/api/products", middleware.RequireSession(h.Store, h.GetProducts))
}

func AddFilterRoutes(router *httprouter.Router, h *storefront.Handler) {
	auth := func(next httprouter.Handle) httprouter.Handle { return middleware.RequireSession(h.Store, next) }
	router.GET("/api/filters", auth(h.GetFilters))
	router.GET("/api/filters/search", auth(h.SearchFilterOptions))
	router.POST("/api/filters/toggle", auth(h.ToggleFilter))
	router.PUT("/api/filters/range", auth(h.SetFilterRange))
	router.DELETE("/api/filters", auth(h.ClearFilters))
	router.DELETE("/api/filters/:group", auth(h.ClearFilterGroup))
	router.DELETE("/api/filters/:group/:option", auth(h.RemoveFilterOption))
}

func AddCompareRoutes(router *httprouter.Router, h *storefront.Handler) {
	auth := func(next httprouter.Handle) httprouter.Handle { return middleware.RequireSession(h.Store, next) }
	router.GET("/api/compare", auth(h.GetComparison))
	router.GET("/api/compare/candidates", auth(h.GetCompareCandidates))
	router.POST("/api/compare/:id", auth(h.AddToComparison))
	router.DELETE("/api/compare/:id", auth(h.RemoveFromComparison))
	router.DELETE("/api/compare", auth(h.ClearComparison))
}

func AddWishlistRoutes(router *httprouter.Router, h *storefront.Handler, rateLimiter *ratelim.RateLimiter) {
	auth := func(next httprouter.Handle) httprouter.Handle { return middleware.RequireSession(h.Store, next) }
	router.GET("/api/wishlist", auth(h.GetWishlist))
	router.PUT("/api/wishlist/view", auth(h.SetWishlistView))
	router.DELETE("/api/wishlist", auth(h.ClearWishlist))
	router.POST("/api/wishlist/items/:id", auth(h.AddToWishlist))
	router.DELETE("/api/wishlist/items/:id", auth(h.RemoveFromWishlist))
	router.PUT("/api/wishlist/items/:id/stock", auth(h.SetWishlistStock))
	router.POST("/api/wishlist/items/:id/cart", auth(h.MoveWishlistItemToCart))
	router.POST("/api/wishlist/cart", auth(h.MoveAvailableToCart))
	router.POST("/api/wishlist/share", rateLimiter.Limit(middleware.SessionID, auth(h.ShareWishlist)))

	router.GET("/api/shared/:token", h.GetSharedWishlist)
	router.GET("/api/shared/:token/qr", h.GetSharedWishlistQR)
}

func AddCartRoutes(router *httprouter.Router, h *storefront.Handler) {
	auth := func(next httprouter.Handle) httprouter.Handle { return middleware.RequireSession(h.Store, next) }
	router.GET("/api/cart", auth(h.GetCart))
	router.POST("/api/cart/items/:id", auth(h.AddToCart))
	router.PUT("/api/cart/items/:id", auth(h.SetCartQuantity))
	router.DELETE("/api/cart/items/:id", auth(h.RemoveFromCart))
	router.DELETE("/api/cart", auth(h.ClearCart))
}

func AddCheckoutRoutes(router *httprouter.Router, h *storefront.Handler, rateLimiter *ratelim.RateLimiter) {
	auth := func(next httprouter.Handle) httprouter.Handle { return middleware.RequireSession(h.Store, next) }
	router.GET("/api/checkout", auth(h.GetCheckout))
	router.PUT("/api/checkout", auth(h.UpdateCheckout))
	router.POST("/api/checkout/next", auth(h.NextCheckoutStep))
	router.POST("/api/checkout/back", auth(h.PrevCheckoutStep))
	router.POST("/api/checkout/submit", rateLimiter.Limit(middleware.SessionID, auth(h.SubmitCheckout)))
	router.POST("/api/checkout/cancel", auth(h.CancelCheckout))
	router.GET("/api/checkout/receipt", auth(h.GetReceipt))
}

func AddAssistantRoutes(router *httprouter.Router, h *storefront.Handler, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/assistant", middleware.RequireSession(h.Store, h.GetAssistant))
	router.POST("/api/assistant/messages", rateLimiter.Limit(middleware.SessionID, middleware.RequireSession(h.Store, h.SendAssistantMessage)))
	if h.Hub != nil {
		router.GET("/ws/assistant", h.AssistantSocket(rateLimiter))
	}
}

func AddTryOnRoutes(router *httprouter.Router, h *storefront.Handler, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/tryon/sizes", h.GetWristSizes)
	router.POST("/api/tryon/capture", rateLimiter.Limit(ratelim.RemoteAddr, h.CaptureTryOn))
}
