package routes

import (
	"cart-bff/controllers"
	"cart-bff/middleware"

	"github.com/gin-gonic/gin"
)

// Register sets up all routes. Cart and checkout routes work for both
// guests and authenticated users; favorites require a login.
func Register(
	r *gin.Engine,
	cartController *controllers.CartController,
	checkoutController *controllers.CheckoutController,
	favoritesController *controllers.FavoritesController,
) {
	api := r.Group("/")
	api.Use(middleware.Identity())

	cart := api.Group("/cart")
	{
		cart.GET("", cartController.GetCart)
		cart.GET("/bill", cartController.GetBill)
		cart.POST("/items", cartController.AddItem)
		cart.POST("/items/:item_id/increase", cartController.IncreaseQuantity)
		cart.POST("/items/:item_id/decrease", cartController.DecreaseQuantity)
		cart.DELETE("/items/:item_id", cartController.RemoveItem)
	}

	checkout := api.Group("/checkout")
	{
		checkout.POST("", checkoutController.Checkout)
		checkout.POST("/verify/:order_id", checkoutController.VerifyPayment)
	}

	orders := api.Group("/orders")
	{
		orders.GET("", checkoutController.History)
		orders.GET("/:order_id", checkoutController.GetOrder)
	}

	favorites := api.Group("/favorites")
	favorites.Use(middleware.RequireUser())
	{
		favorites.GET("", favoritesController.List)
		favorites.PUT("/:vendor_id", favoritesController.Add)
		favorites.DELETE("/:vendor_id", favoritesController.Remove)
	}
}
