package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trahoangdev/kureno-sub000/middleware"
	"github.com/trahoangdev/kureno-sub000/models"
	"github.com/trahoangdev/kureno-sub000/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

type OrderController struct {
	orders    *repository.OrderRepository
	validator *RequestValidator
	logger    *zap.Logger
	timeout   time.Duration
}

func NewOrderController(orders *repository.OrderRepository, validator *RequestValidator, logger *zap.Logger) *OrderController {
	return &OrderController{
		orders:    orders,
		validator: validator,
		logger:    logger,
		timeout:   DefaultContextTimeout,
	}
}

// ListOrders handles GET /orders with optional status filter.
func (ctl *OrderController) ListOrders(c *gin.Context) {
	page, perPage, err := ctl.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(models.OrderStatus(status)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown status %q", status)})
			return
		}
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	orders, total, err := ctl.orders.Find(ctx, filter, page, perPage)
	if err != nil {
		ctl.logger.Error("Failed to list orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total, "page": page, "perPage": perPage})
}

// GetOrder handles GET /orders/:id.
func (ctl *OrderController) GetOrder(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	order, err := ctl.orders.FindByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		ctl.logger.Error("Failed to fetch order", zap.String("id", oid.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateStatus handles PATCH /orders/:id/status. Status is the only
// order field the admin panel mutates.
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := ctl.validator.BindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown status %q", req.Status)})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	result, err := ctl.orders.UpdateStatus(ctx, oid, req.Status)
	if err != nil {
		ctl.logger.Error("Failed to update order status", zap.String("id", oid.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	ctl.logger.Info("Order status updated",
		zap.String("order", oid.Hex()),
		zap.String("status", string(req.Status)),
		zap.String("actor", middleware.Actor(c)))
	c.JSON(http.StatusOK, gin.H{"success": true, "status": req.Status})
}
