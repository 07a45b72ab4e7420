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

type MessageController struct {
	messages  *repository.MessageRepository
	validator *RequestValidator
	logger    *zap.Logger
	timeout   time.Duration
}

func NewMessageController(messages *repository.MessageRepository, validator *RequestValidator, logger *zap.Logger) *MessageController {
	return &MessageController{
		messages:  messages,
		validator: validator,
		logger:    logger,
		timeout:   DefaultContextTimeout,
	}
}

// ListMessages handles GET /messages with optional unread filter.
func (ctl *MessageController) ListMessages(c *gin.Context) {
	page, perPage, err := ctl.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := bson.M{}
	if c.Query("unread") == "true" {
		filter["read"] = false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	messages, total, err := ctl.messages.Find(ctx, filter, page, perPage)
	if err != nil {
		ctl.logger.Error("Failed to list messages", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages, "total": total, "page": page, "perPage": perPage})
}

// MarkRead handles PATCH /messages/:id/read.
func (ctl *MessageController) MarkRead(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	result, err := ctl.messages.MarkRead(ctx, oid)
	if err != nil {
		ctl.logger.Error("Failed to mark message read", zap.String("id", oid.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteMessage handles DELETE /messages/:id.
func (ctl *MessageController) DeleteMessage(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	result, err := ctl.messages.Delete(ctx, oid)
	if err != nil {
		ctl.logger.Error("Failed to delete message", zap.String("id", oid.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
