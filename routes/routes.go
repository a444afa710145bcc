package routes

import (
	"github.com/LovationAdmin/device-compare-api/handlers"
	"github.com/LovationAdmin/device-compare-api/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCatalogRoutes sets up the public listing, feature and beacon routes.
func SetupCatalogRoutes(rg *gin.RouterGroup, products *handlers.ProductHandler, features *handlers.FeatureHandler) {
	rg.GET("/categories", features.ListCategories)

	rg.GET("/products/:category", products.ListProducts)
	rg.GET("/products/:category/:id", products.GetProduct)
	rg.POST("/products/:category/compare", products.Compare)
	rg.POST("/products/track-view", products.TrackView)
	rg.GET("/trending", products.Trending)

	rg.GET("/features/:category", features.PopularFeatures)
	rg.POST("/features/track", features.TrackClick)
}

// SetupWSRoutes sets up the live feature click feed.
func SetupWSRoutes(rg *gin.RouterGroup, ws *handlers.WSHandler) {
	rg.GET("/ws/features/:category", ws.HandleWS)
}

// SetupAdminRoutes sets up the operator routes behind admin bearer tokens.
func SetupAdminRoutes(rg *gin.RouterGroup, admin *handlers.AdminHandler, tokens middleware.AdminTokens) {
	group := rg.Group("/admin")
	group.Use(middleware.AdminAuth(tokens))

	group.GET("/feature-clicks/:category", admin.FeatureClicks)
	group.POST("/cache/clean", admin.CleanCache)
}
