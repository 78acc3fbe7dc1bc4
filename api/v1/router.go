package v1

import (
	"gift_catalog/api/v1/auth"
	"gift_catalog/api/v1/certificates"
	"gift_catalog/api/v1/middleware"
	"gift_catalog/api/v1/orders"
	"gift_catalog/api/v1/tags"
	authn "gift_catalog/internal/auth"
	"gift_catalog/internal/catalog"
	"gift_catalog/internal/httpx"
	"gift_catalog/internal/model"
	ordersvc "gift_catalog/internal/orders"
	"gift_catalog/internal/store"

	"github.com/gin-gonic/gin"
)

// Deps bundles what the routes are served from
type Deps struct {
	Store   *store.Store
	Catalog *catalog.Service
	Orders  *ordersvc.Service
	Issuer  *authn.Issuer
}

// SetupRouter sets up the API v1 routes
func SetupRouter(r *gin.Engine, d Deps) {
	v1 := r.Group("/api/v1")
	{
		v1.GET("/ping", pingHandler)

		authHandler := auth.NewHandler(d.Store, d.Issuer)
		v1.POST("/auth/login", authHandler.Login)

		// Catalog reads are public
		certHandler := certificates.NewHandler(d.Catalog)
		certGroup := v1.Group("/certificates")
		{
			certGroup.GET("", certHandler.List)
			certGroup.GET("/search", certHandler.Search)
			certGroup.GET("/by-tags", certHandler.ByTags)
			certGroup.GET("/:id", certHandler.Get)
		}

		tagHandler := tags.NewHandler(d.Catalog)
		tagGroup := v1.Group("/tags")
		{
			tagGroup.GET("", tagHandler.List)
			tagGroup.GET("/:id", tagHandler.Get)
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthRequired(d.Issuer))
		{
			protected.GET("/me", meHandler)

			orderHandler := orders.NewHandler(d.Orders)
			orderGroup := protected.Group("/orders")
			{
				orderGroup.GET("", orderHandler.List)
				orderGroup.GET("/:id", orderHandler.Get)
				orderGroup.POST("/create", orderHandler.Create)
			}

			admin := protected.Group("")
			admin.Use(middleware.RequireRole(model.RoleAdmin))
			{
				admin.POST("/certificates/create", certHandler.Create)
				admin.POST("/certificates/update", certHandler.Update)
				admin.POST("/certificates/delete", certHandler.Delete)
				admin.POST("/tags/create", tagHandler.Create)
				admin.POST("/tags/delete", tagHandler.Delete)
			}
		}
	}
}

// pingHandler handles the ping request using unified response
func pingHandler(c *gin.Context) {
	httpx.OK(c, gin.H{
		"pong": true,
	})
}

// meHandler returns current user information
func meHandler(c *gin.Context) {
	httpx.OK(c, gin.H{
		"uid":   middleware.UserID(c),
		"login": c.GetString(middleware.KeyLogin),
		"role":  middleware.Role(c),
	})
}
