package controllers

import (
	"net/http"
	"strconv"

	"cart-bff/middleware"
	"cart-bff/models"
	"cart-bff/services"

	"github.com/gin-gonic/gin"
)

// CheckoutController handles checkout, payment verification and order
// history.
type CheckoutController struct {
	checkoutService services.CheckoutService
}

// NewCheckoutController creates a new CheckoutController.
func NewCheckoutController(svc services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkoutService: svc}
}

// Checkout handles POST /checkout
func (cc *CheckoutController) Checkout(ctx *gin.Context) {
	var req models.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	src := middleware.SourceFromContext(ctx)
	resp, svcErr := cc.checkoutService.Checkout(ctx.Request.Context(), src, &req)
	if svcErr != nil {
		respondServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Order created successfully. Redirect user to payment.",
		"checkout": resp,
	})
}

// VerifyPayment handles POST /checkout/verify/:order_id
func (cc *CheckoutController) VerifyPayment(ctx *gin.Context) {
	src := middleware.SourceFromContext(ctx)

	order, svcErr := cc.checkoutService.VerifyPayment(ctx.Request.Context(), src, ctx.Param("order_id"))
	if svcErr != nil {
		respondServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// History handles GET /orders
func (cc *CheckoutController) History(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	src := middleware.SourceFromContext(ctx)
	orders, total, svcErr := cc.checkoutService.History(ctx.Request.Context(), src, page, limit)
	if svcErr != nil {
		respondServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// GetOrder handles GET /orders/:order_id
func (cc *CheckoutController) GetOrder(ctx *gin.Context) {
	src := middleware.SourceFromContext(ctx)

	order, svcErr := cc.checkoutService.Order(ctx.Request.Context(), src, ctx.Param("order_id"))
	if svcErr != nil {
		respondServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// parsePaginationParams extracts and validates page/limit query params.
func parsePaginationParams(ctx *gin.Context) (int, int) {
	const maxLimit = 100
	pageInt, limitInt := 1, 10
	if p, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil && p > 0 {
		pageInt = p
	}
	if l, err := strconv.Atoi(ctx.DefaultQuery("limit", "10")); err == nil && l > 0 {
		if l > maxLimit {
			l = maxLimit
		}
		limitInt = l
	}
	return pageInt, limitInt
}
