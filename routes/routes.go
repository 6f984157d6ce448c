package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ShehanaHewage/TheCloset/controllers"
	"github.com/ShehanaHewage/TheCloset/middleware"
)

// Handlers bundles everything route registration needs.
type Handlers struct {
	Users     *controllers.UserController
	Items     *controllers.ItemController
	Orders    *controllers.OrderController
	Files     *controllers.FileController
	JWTSecret []byte
	Limiter   *middleware.RateLimiter
}

// Register mounts all API routes under /api/v1.
func Register(router *gin.Engine, h *Handlers) {
	authed := middleware.Authenticate(h.JWTSecret)
	admin := middleware.RequireAdmin()

	api := router.Group("/api/v1")

	users := api.Group("/users")
	{
		users.POST("/register", h.Limiter.Limit(), h.Users.Register)
		users.POST("/login", h.Limiter.Limit(), h.Users.Login)

		users.GET("/me", authed, h.Users.Me)
		users.PUT("/me", authed, h.Users.UpdateMe)
		users.PUT("/me/password", authed, h.Users.ChangePassword)

		users.GET("", authed, admin, h.Users.List)
		users.GET("/:id", authed, admin, h.Users.Get)
		users.PUT("/:id", authed, admin, h.Users.Update)
		users.DELETE("/:id", authed, admin, h.Users.Delete)
	}

	items := api.Group("/items")
	{
		items.GET("", h.Items.List)
		items.GET("/:id", h.Items.Get)

		items.POST("", authed, admin, h.Items.Create)
		items.PUT("/:id", authed, admin, h.Items.Update)
		items.DELETE("/:id", authed, admin, h.Items.Delete)
	}

	orders := api.Group("/orders")
	{
		// Guests may place and track orders; a bearer token attaches the
		// order to the account.
		orders.POST("", middleware.OptionalAuthenticate(h.JWTSecret), h.Orders.Place)
		orders.GET("/track/:trackingCode", h.Orders.Track)

		orders.GET("/user", authed, h.Orders.ListMine)

		orders.GET("", authed, admin, h.Orders.List)
		orders.GET("/:id", authed, admin, h.Orders.Get)
		orders.PATCH("/:id/status", authed, admin, h.Orders.UpdateStatus)
	}

	files := api.Group("/files")
	{
		files.POST("/upload", authed, admin, h.Files.Upload)
		files.GET("/:filename", h.Files.Get)
	}
}
