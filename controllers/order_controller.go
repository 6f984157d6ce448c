package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShehanaHewage/TheCloset/middleware"
	"github.com/ShehanaHewage/TheCloset/models"
	"github.com/ShehanaHewage/TheCloset/services"
)

// OrderController handles order requests.
type OrderController struct {
	orders services.OrderService
}

// NewOrderController creates an OrderController.
func NewOrderController(orders services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Place handles POST /orders. The endpoint is public; when a bearer token is
// present the order is attached to the authenticated account.
func (oc *OrderController) Place(c *gin.Context) {
	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if userID, ok := middleware.UserID(c); ok {
		req.UserID = userID
	} else {
		req.UserID = ""
	}

	order, svcErr := oc.orders.Place(c.Request.Context(), &req)
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// Track handles GET /orders/track/:trackingCode.
func (oc *OrderController) Track(c *gin.Context) {
	order, svcErr := oc.orders.Track(c.Request.Context(), c.Param("trackingCode"))
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListMine handles GET /orders/user, the authenticated account's history.
func (oc *OrderController) ListMine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	orders, svcErr := oc.orders.ListForUser(c.Request.Context(), userID)
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// List handles GET /orders (admin), optionally filtered by status.
func (oc *OrderController) List(c *gin.Context) {
	page, limit := paginationParams(c)

	orders, total, svcErr := oc.orders.List(c.Request.Context(), c.Query("status"), page, limit)
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      orders,
		"pagination": models.NewPagination(total, page, limit),
	})
}

// Get handles GET /orders/:id (admin).
func (oc *OrderController) Get(c *gin.Context) {
	order, svcErr := oc.orders.Get(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateStatus handles PATCH /orders/:id/status (admin).
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, svcErr := oc.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, order)
}
