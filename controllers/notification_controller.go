package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trahoangdev/kureno-sub000/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type NotificationController struct {
	notifications *repository.NotificationRepository
	validator     *RequestValidator
	logger        *zap.Logger
	timeout       time.Duration
}

func NewNotificationController(notifications *repository.NotificationRepository, validator *RequestValidator, logger *zap.Logger) *NotificationController {
	return &NotificationController{
		notifications: notifications,
		validator:     validator,
		logger:        logger,
		timeout:       DefaultContextTimeout,
	}
}

// ListNotifications handles GET /notifications with optional unread filter.
func (ctl *NotificationController) ListNotifications(c *gin.Context) {
	page, perPage, err := ctl.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := bson.M{}
	if c.Query("unread") == "true" {
		filter["read"] = false
	}
	if t := c.Query("type"); t != "" {
		filter["type"] = t
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	notifications, total, err := ctl.notifications.Find(ctx, filter, page, perPage)
	if err != nil {
		ctl.logger.Error("Failed to list notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "total": total, "page": page, "perPage": perPage})
}

// MarkRead handles PATCH /notifications/:id/read.
func (ctl *NotificationController) MarkRead(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	result, err := ctl.notifications.MarkRead(ctx, oid)
	if err != nil {
		ctl.logger.Error("Failed to mark notification read", zap.String("id", oid.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteNotification handles DELETE /notifications/:id.
func (ctl *NotificationController) DeleteNotification(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	result, err := ctl.notifications.Delete(ctx, oid)
	if err != nil {
		ctl.logger.Error("Failed to delete notification", zap.String("id", oid.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
