package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trahoangdev/kureno-sub000/controllers"
	"github.com/trahoangdev/kureno-sub000/middleware"
)

// Controllers bundles every handler group the router mounts.
type Controllers struct {
	Products      *controllers.ProductController
	Categories    *controllers.CategoryController
	Blog          *controllers.BlogController
	Orders        *controllers.OrderController
	Users         *controllers.UserController
	Reviews       *controllers.ReviewController
	Notifications *controllers.NotificationController
	Messages      *controllers.MessageController
	Export        *controllers.ExportController
	Import        *controllers.ImportController
	Upload        *controllers.UploadController
}

// RegisterRoutes mounts the admin API. Everything under /api/admin
// requires a valid admin JWT.
func RegisterRoutes(router *gin.Engine, ctl Controllers, jwtSecret string) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	admin := router.Group("/api/admin")
	admin.Use(middleware.RequireAdmin(jwtSecret))
	{
		admin.GET("/export", ctl.Export.Export)
		admin.POST("/import", ctl.Import.Import)

		admin.GET("/products", ctl.Products.ListProducts)
		admin.GET("/products/:id", ctl.Products.GetProduct)
		admin.POST("/products", ctl.Products.CreateProduct)
		admin.PUT("/products/:id", ctl.Products.UpdateProduct)
		admin.DELETE("/products/:id", ctl.Products.DeleteProduct)

		admin.GET("/categories", ctl.Categories.ListCategories)
		admin.GET("/categories/:id", ctl.Categories.GetCategory)
		admin.POST("/categories", ctl.Categories.CreateCategory)
		admin.PUT("/categories/:id", ctl.Categories.UpdateCategory)
		admin.DELETE("/categories/:id", ctl.Categories.DeleteCategory)

		admin.GET("/blog", ctl.Blog.ListPosts)
		admin.GET("/blog/:slug", ctl.Blog.GetPost)
		admin.POST("/blog", ctl.Blog.CreatePost)
		admin.PUT("/blog/id/:id", ctl.Blog.UpdatePost)
		admin.DELETE("/blog/id/:id", ctl.Blog.DeletePost)

		admin.GET("/orders", ctl.Orders.ListOrders)
		admin.GET("/orders/:id", ctl.Orders.GetOrder)
		admin.PATCH("/orders/:id/status", ctl.Orders.UpdateStatus)

		admin.GET("/users", ctl.Users.ListUsers)
		admin.GET("/users/:id", ctl.Users.GetUser)
		admin.DELETE("/users/:id", ctl.Users.DeleteUser)

		admin.GET("/reviews", ctl.Reviews.ListReviews)
		admin.DELETE("/reviews/:id", ctl.Reviews.DeleteReview)
		admin.POST("/reviews/bulk", ctl.Reviews.BulkAction)

		admin.GET("/notifications", ctl.Notifications.ListNotifications)
		admin.PATCH("/notifications/:id/read", ctl.Notifications.MarkRead)
		admin.DELETE("/notifications/:id", ctl.Notifications.DeleteNotification)

		admin.GET("/messages", ctl.Messages.ListMessages)
		admin.PATCH("/messages/:id/read", ctl.Messages.MarkRead)
		admin.DELETE("/messages/:id", ctl.Messages.DeleteMessage)

		admin.GET("/uploads/presign", ctl.Upload.PresignUpload)
	}
}
