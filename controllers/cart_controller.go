package controllers

import (
	"net/http"

	"cart-bff/middleware"
	"cart-bff/models"
	"cart-bff/services"

	"github.com/gin-gonic/gin"
)

// CartController handles HTTP requests for cart operations.
type CartController struct {
	cartService services.CartService
}

// NewCartController creates a new CartController.
func NewCartController(svc services.CartService) *CartController {
	return &CartController{cartService: svc}
}

// AddItemRequest is the payload for adding an item to the cart.
type AddItemRequest struct {
	ItemID     string  `json:"item_id" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	Price      float64 `json:"price" binding:"required,gte=0"`
	Packable   bool    `json:"packable"`
	Kind       string  `json:"kind" binding:"required"`
	VendorID   string  `json:"vendor_id" binding:"required"`
	VendorName string  `json:"vendor_name"`
	ImageURL   string  `json:"image_url"`
	Unit       string  `json:"unit"`
}

// GetCart handles GET /cart
func (cc *CartController) GetCart(ctx *gin.Context) {
	src := middleware.SourceFromContext(ctx)

	cart, svcErr := cc.cartService.LoadCart(ctx.Request.Context(), src)
	if svcErr != nil {
		respondServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// AddItem handles POST /cart/items
func (cc *CartController) AddItem(ctx *gin.Context) {
	var req AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	src := middleware.SourceFromContext(ctx)
	item := models.LineItem{
		ItemID:   req.ItemID,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: 1,
		Packable: req.Packable,
		Kind:     req.Kind,
		VendorID: req.VendorID,
		ImageURL: req.ImageURL,
		Unit:     req.Unit,
	}

	cart, svcErr := cc.cartService.AddItem(ctx.Request.Context(), src, item, req.VendorName)
	if svcErr != nil {
		respondServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": req.Name + " added to cart", "cart": cart})
}

// IncreaseQuantity handles POST /cart/items/:item_id/increase
func (cc *CartController) IncreaseQuantity(ctx *gin.Context) {
	src := middleware.SourceFromContext(ctx)

	cart, svcErr := cc.cartService.IncreaseQuantity(ctx.Request.Context(), src, ctx.Param("item_id"))
	if svcErr != nil {
		respondServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// DecreaseQuantity handles POST /cart/items/:item_id/decrease
func (cc *CartController) DecreaseQuantity(ctx *gin.Context) {
	src := middleware.SourceFromContext(ctx)

	cart, svcErr := cc.cartService.DecreaseQuantity(ctx.Request.Context(), src, ctx.Param("item_id"))
	if svcErr != nil {
		respondServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// RemoveItem handles DELETE /cart/items/:item_id
func (cc *CartController) RemoveItem(ctx *gin.Context) {
	src := middleware.SourceFromContext(ctx)

	cart, svcErr := cc.cartService.RemoveItem(ctx.Request.Context(), src, ctx.Param("item_id"))
	if svcErr != nil {
		respondServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// GetBill handles GET /cart/bill?order_type=delivery
func (cc *CartController) GetBill(ctx *gin.Context) {
	orderType := ctx.DefaultQuery("order_type", string(models.OrderTypeTakeaway))
	if !models.ValidOrderType(orderType) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order type"})
		return
	}

	src := middleware.SourceFromContext(ctx)
	cart, bill, svcErr := cc.cartService.Bill(ctx.Request.Context(), src, models.OrderType(orderType))
	if svcErr != nil {
		respondServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"cart": cart, "bill": bill})
}

// respondServiceError writes a ServiceError as a JSON response. Errors
// flagged with Reauth tell the client to drop its token and continue
// as a guest.
func respondServiceError(ctx *gin.Context, svcErr *services.ServiceError) {
	body := gin.H{"error": svcErr.Message}
	if svcErr.Reauth {
		body["reauth"] = true
	}
	ctx.JSON(svcErr.StatusCode, body)
}
